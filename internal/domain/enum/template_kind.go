package enum

// TemplateKind is the document a printer template lays out
type TemplateKind string

const (
	TemplateKindReceipt     TemplateKind = "receipt"
	TemplateKindInvoice     TemplateKind = "invoice"
	TemplateKindWorkshopTag TemplateKind = "workshop_tag"
)

// IsValid reports whether k is a known template kind
func (k TemplateKind) IsValid() bool {
	switch k {
	case TemplateKindReceipt, TemplateKindInvoice, TemplateKindWorkshopTag:
		return true
	}
	return false
}
