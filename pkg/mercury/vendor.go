package mercury

import "strings"

// UnknownVendor is the sentinel used when no vendor field is populated.
const UnknownVendor = "Unknown Vendor"

// VendorName picks the best available vendor label for a transaction:
// merchant name, then counterparty name, then bank description, then the
// card-level merchant name. Whitespace-only values are treated as empty.
func VendorName(merchant, counterparty, bankDescription, cardMerchant string) string {
	for _, candidate := range []string{merchant, counterparty, bankDescription, cardMerchant} {
		if v := strings.TrimSpace(candidate); v != "" {
			return v
		}
	}
	return UnknownVendor
}
