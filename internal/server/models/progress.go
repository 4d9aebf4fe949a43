package models

// ClientProgress is the per-client document of legacy project summaries and
// uploaded invoices. Its id is the account id. Items are kept schemaless
// because admins post arbitrary project and invoice fields.
type ClientProgress struct {
	ID        string           `json:"id"`
	Projects  []map[string]any `json:"projects"`
	Invoices  []map[string]any `json:"invoices"`
	Version   int64            `json:"version"`
	CreatedAt string           `json:"createdAt,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

// InvoiceFile describes an uploaded invoice document.
type InvoiceFile struct {
	S3Key    string `json:"s3Key"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}
