package inbound

type CertificateRequest struct {
	ID int64 `json:"id,string"`
}

type CertificateResponse struct {
	ID int64 `json:"id,string"`
}

type IsLegacyResponse struct {
	ID     int64 `json:"id,string"`
	Legacy bool  `json:"legacy"`
}

type LegacyOfModernResponse struct {
	ID int64 `json:"id,string"`
	// ModernID is 0 when the certificate is not a legacy copy.
	ModernID int64 `json:"modern_id,string"`
}

type ToolsResponse struct {
	LegacyCount   int     `json:"legacy_count"`
	MigratedCount int     `json:"migrated_count"`
	Legacy        []int64 `json:"legacy"`
	Migrated      []int64 `json:"migrated"`
}

type BulkResponse struct {
	Done   map[int64]int64  `json:"done"`
	Errors map[int64]string `json:"errors"`
}
