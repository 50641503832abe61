package extract

import "testing"

func TestFindAmount(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "labeled total with dollar sign",
			text:  "Coffee Shop\nTotal: $45.67\nThank you",
			want:  "45.67",
			found: true,
		},
		{
			name:  "labeled amount",
			text:  "Amount: 12.5",
			want:  "12.50",
			found: true,
		},
		{
			name:  "total label separated from figure",
			text:  "total due today $ 99.99",
			want:  "99.99",
			found: true,
		},
		{
			name:  "trailing dollar figure on its own line",
			text:  "Groceries\n$23.10\nhave a nice day",
			want:  "23.10",
			found: true,
		},
		{
			name:  "currency code suffix",
			text:  "paid 30 USD by card",
			want:  "30.00",
			found: true,
		},
		{
			name:  "currency code prefix",
			text:  "GBP 14.99",
			want:  "14.99",
			found: true,
		},
		{
			name: "falls back to the largest numeric token",
			// No labeled total: the biggest figure wins.
			text:  "item 3.50\nitem 12.00\nitem 7.25",
			want:  "12.00",
			found: true,
		},
		{
			name:  "labeled total beats a larger bare figure",
			text:  "item $99.00\nTotal: $45.67",
			want:  "45.67",
			found: true,
		},
		{
			name:  "no numbers at all",
			text:  "thank you come again",
			found: false,
		},
		{
			name:  "empty input",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindAmount(tt.text)
			if found != tt.found {
				t.Fatalf("FindAmount(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if got != tt.want && tt.found {
				t.Errorf("FindAmount(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindDate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{name: "US numeric date", text: "purchased on 03/15/2024 at noon", want: "2024-03-15", found: true},
		{name: "day-first numeric date", text: "25/12/2024", want: "2024-12-25", found: true},
		{name: "two-digit year", text: "03/15/24", want: "2024-03-15", found: true},
		{name: "ISO date", text: "date 2024-03-15", want: "2024-03-15", found: true},
		{name: "month name with comma", text: "March 15, 2024", want: "2024-03-15", found: true},
		{name: "abbreviated month", text: "receipt mar 5 2024", want: "2024-03-05", found: true},
		{name: "day before month name", text: "15 march 2024", want: "2024-03-15", found: true},
		{name: "invalid calendar date is skipped", text: "02/30/2024 nothing else", found: false},
		{name: "no date", text: "Total: $4.00", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindDate(tt.text)
			if found != tt.found {
				t.Fatalf("FindDate(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if tt.found && got != tt.want {
				t.Errorf("FindDate(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindDescription(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "first line that is not boilerplate",
			text:  "Total: $45.67\n03/15/2024\nCoffee Shop Purchase",
			want:  "Coffee Shop Purchase",
			found: true,
		},
		{
			name:  "skips short lines",
			text:  "abc\nFresh Groceries Ltd",
			want:  "Fresh Groceries Ltd",
			found: true,
		},
		{
			name:  "skips reserved keywords case-insensitively",
			text:  "SUBTOTAL 4.00\nthank you\nCorner Bakery",
			want:  "Corner Bakery",
			found: true,
		},
		{
			name:  "skips bare dollar figures",
			text:  "$12.99\n12.99\nHardware Store",
			want:  "Hardware Store",
			found: true,
		},
		{
			name:  "nothing survives the filter",
			text:  "tax\n#123\n03/15/24",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FindDescription(tt.text)
			if found != tt.found {
				t.Fatalf("FindDescription(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if tt.found && got != tt.want {
				t.Errorf("FindDescription(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Extraction is a pure function of its input: running it twice over the same
// text must yield identical results.
func TestExtractionIdempotence(t *testing.T) {
	text := "Total: $45.67\n03/15/2024\nCoffee Shop Purchase"

	amount1, _ := FindAmount(text)
	amount2, _ := FindAmount(text)
	if amount1 != amount2 {
		t.Errorf("FindAmount not idempotent: %q vs %q", amount1, amount2)
	}

	date1, _ := FindDate(text)
	date2, _ := FindDate(text)
	if date1 != date2 {
		t.Errorf("FindDate not idempotent: %q vs %q", date1, date2)
	}

	desc1, _ := FindDescription(text)
	desc2, _ := FindDescription(text)
	if desc1 != desc2 {
		t.Errorf("FindDescription not idempotent: %q vs %q", desc1, desc2)
	}

	if amount1 != "45.67" || date1 != "2024-03-15" || desc1 != "Coffee Shop Purchase" {
		t.Errorf("scenario mismatch: amount=%q date=%q description=%q", amount1, date1, desc1)
	}
}
