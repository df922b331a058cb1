package extract

import "testing"

func TestPropertyType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Stunning villa in Canggu", "Villa"},
		{"Freehold land plot in Ubud", "Land"},
		{"Modern family home", "House"},
		{"2BR apartement unit", "Apartment"},
		{"Boutique hotel for sale", "Hotel"},
		{"Prime plot near the beach", "Land"},
		{"Ocean view property", "Villa"}, // explicit default
	}

	for _, tt := range tests {
		if got := PropertyType(tt.raw); got != tt.want {
			t.Errorf("PropertyType(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestContractType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"LEASEHOLD Villa", "Leasehold"},
		{"freehold title", "Freehold"},
		{"monthly rental available", "Rental"},
		{"no tenure mentioned", "Freehold"}, // explicit default
	}

	for _, tt := range tests {
		if got := ContractType(tt.raw); got != tt.want {
			t.Errorf("ContractType(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStandardizePropertyType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Townhouse for Sale", "Townhouse"},
		{"Villa for Sale", "Villa"},
		{"Beachfront Home", "House"},
		{"Warehouse for Sale", "House"}, // "house" keyword inside the word
	}

	for _, tt := range tests {
		if got := StandardizePropertyType(tt.raw); got != tt.want {
			t.Errorf("StandardizePropertyType(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}
