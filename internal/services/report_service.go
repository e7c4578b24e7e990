package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockpulse/internal/analytics"
	"stockpulse/internal/export"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrStorageDisabled = errors.New("report storage is not configured")

// StoredReport points to an uploaded report.
type StoredReport struct {
	ObjectName string    `json:"object_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
	SizeBytes  int       `json:"size_bytes"`
}

// ReportService renders dashboard reports and optionally archives them in object storage.
type ReportService struct {
	storage   ReportStorage
	urlExpiry time.Duration
}

// NewReportService accepts a nil storage; StoreReport then fails with ErrStorageDisabled.
func NewReportService(storage ReportStorage, urlExpiry time.Duration) *ReportService {
	if urlExpiry <= 0 {
		urlExpiry = time.Hour
	}
	return &ReportService{storage: storage, urlExpiry: urlExpiry}
}

func (s *ReportService) Render(dashboard *analytics.Dashboard) ([]byte, error) {
	return export.RenderReport(dashboard)
}

// StoreReport renders the dashboard, uploads it and returns a presigned download link.
func (s *ReportService) StoreReport(ctx context.Context, dashboard *analytics.Dashboard) (*StoredReport, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	data, err := s.Render(dashboard)
	if err != nil {
		return nil, err
	}

	objectName := ReportObjectName(dashboard.TenantID, dashboard.GeneratedAt)
	if err := s.storage.UploadReport(ctx, objectName, data, ContentTypePDF); err != nil {
		return nil, err
	}

	url, err := s.storage.GetPresignedURL(ctx, objectName, s.urlExpiry)
	if err != nil {
		if delErr := s.storage.DeleteReport(ctx, objectName); delErr != nil {
			log.Warn().Err(delErr).Str("object", objectName).Msg("failed to remove unsigned report")
		}
		return nil, fmt.Errorf("presign %s: %w", objectName, err)
	}

	log.Info().
		Str("tenant_id", dashboard.TenantID.String()).
		Str("object", objectName).
		Int("bytes", len(data)).
		Msg("report stored")

	return &StoredReport{
		ObjectName: objectName,
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(s.urlExpiry),
		SizeBytes:  len(data),
	}, nil
}

// ReportObjectName returns "<tenant>/report_<tenant>_<YYYYMMDD>_<HHMMSS>.pdf".
func ReportObjectName(tenantID uuid.UUID, generatedAt time.Time) string {
	at := generatedAt.UTC()
	name := export.FileName("report", tenantID, at, "pdf")
	return fmt.Sprintf("%s/%s_%s.pdf", tenantID, name[:len(name)-len(".pdf")], at.Format("150405"))
}
