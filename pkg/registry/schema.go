// pkg/registry/schema.go
package registry

// Category keys for the built-in product collections. Adding a category is
// a data change here (or in a registry document); no other engine package
// branches on these values.
const (
	CategoryBankAccounts    = "bank-accounts"
	CategoryCreditCards     = "credit-cards"
	CategoryPersonalLoans   = "personal-loans"
	CategoryMobilePlans     = "mobile-plans"
	CategoryBroadband       = "broadband"
	CategoryEntertainment   = "entertainment"
	CategoryMobilePayments  = "mobile-payments"
	CategoryCarLoans        = "car-loans"
	CategoryDiningOffers    = "dining-offers"
	CategoryInstantAccounts = "instant-accounts"
	CategoryFixedDeposits   = "fixed-deposits"
	CategoryBusinessLoans   = "business-loans"
)

// CategorySchema describes where the uniform result fields live inside one
// category's collection. Listed fields may be absent on individual records;
// absence is not an error.
type CategorySchema struct {
	Category     string   `json:"category"`
	Collection   string   `json:"collection"`
	SearchFields []string `json:"searchFields"`
	NameField    string   `json:"nameField"`
	BrandField   string   `json:"brandField"`
	LogoField    string   `json:"logoField"`
	LinkField    string   `json:"linkField"`
}

// Document is the on-disk registry shape.
type Document struct {
	Version    string           `json:"version"`
	Categories []CategorySchema `json:"categories"`
}

func builtinSchemas() []CategorySchema {
	return []CategorySchema{
		{
			Category:     CategoryBankAccounts,
			Collection:   "bank_accounts",
			SearchFields: []string{"account_name", "brand", "description"},
			NameField:    "account_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryCreditCards,
			Collection:   "credit_cards",
			SearchFields: []string{"card_name", "brand", "description", "rewards_program"},
			NameField:    "card_name",
			BrandField:   "brand",
			LogoField:    "card_image",
			LinkField:    "apply_link",
		},
		{
			Category:     CategoryPersonalLoans,
			Collection:   "personal_loans",
			SearchFields: []string{"loan_name", "brand", "description"},
			NameField:    "loan_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryMobilePlans,
			Collection:   "mobile_plans",
			SearchFields: []string{"plan_name", "brand", "description"},
			NameField:    "plan_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryBroadband,
			Collection:   "broadband_plans",
			SearchFields: []string{"plan_name", "provider", "description"},
			NameField:    "plan_name",
			BrandField:   "provider",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryEntertainment,
			Collection:   "entertainment_packs",
			SearchFields: []string{"pack_name", "brand", "description"},
			NameField:    "pack_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryMobilePayments,
			Collection:   "mobile_payments",
			SearchFields: []string{"service_name", "provider", "description"},
			NameField:    "service_name",
			BrandField:   "provider",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryCarLoans,
			Collection:   "car_loans",
			SearchFields: []string{"loan_name", "brand", "description"},
			NameField:    "loan_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			// Bundled buy-one-get-one records: no per-product name, the
			// normalizer synthesizes a bundle title.
			Category:     CategoryDiningOffers,
			Collection:   "dining_offers",
			SearchFields: []string{"provider", "offer_text"},
			NameField:    "offer_name",
			BrandField:   "provider",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryInstantAccounts,
			Collection:   "instant_accounts",
			SearchFields: []string{"account_name", "brand", "description"},
			NameField:    "account_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryFixedDeposits,
			Collection:   "fixed_deposits",
			SearchFields: []string{"product_name", "brand", "description"},
			NameField:    "product_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
		{
			Category:     CategoryBusinessLoans,
			Collection:   "business_loans",
			SearchFields: []string{"loan_name", "brand", "description"},
			NameField:    "loan_name",
			BrandField:   "brand",
			LogoField:    "logo",
			LinkField:    "link",
		},
	}
}
