// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Supplier is a known supplier record from the catalog.
type Supplier struct {
	ID string `json:"id" yaml:"id"`

	// OfficialName is the display name as registered.
	OfficialName string `json:"official_name" yaml:"official_name"`

	EnglishName string `json:"english_name,omitempty" yaml:"english_name,omitempty"`

	// NormalizedName is OfficialName after normalization; fuzzy and anchor
	// matching compare against this field.
	NormalizedName string `json:"normalized_name,omitempty" yaml:"normalized_name,omitempty"`

	UsageCount int `json:"usage_count,omitempty" yaml:"usage_count,omitempty"`
}

// Override is a deterministic manual mapping from a normalized input to a supplier.
type Override struct {
	SupplierID string `json:"supplier_id" yaml:"supplier_id"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
	CreatedBy  string `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// FeedbackCount aggregates user confirm/reject actions for one supplier.
type FeedbackCount struct {
	SupplierID    string
	Confirmations int
	Rejections    int
}

// DecisionCount is how often past decisions selected a supplier for an input.
type DecisionCount struct {
	SupplierID string
	Count      int
}
