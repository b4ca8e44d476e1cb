package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEqualShare(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants int
		wantErr      bool
		wantShare    string
		wantPayer    string
	}{
		{
			name:         "ten between payer and two participants",
			total:        "10",
			participants: 2,
			wantShare:    "3.33",
			wantPayer:    "-6.67",
		},
		{
			name:         "even split",
			total:        "90",
			participants: 2,
			wantShare:    "30",
			wantPayer:    "-60",
		},
		{
			name:         "half rounds to even down",
			total:        "0.25",
			participants: 1,
			wantShare:    "0.12",
			wantPayer:    "-0.13",
		},
		{
			name:         "half rounds to even up",
			total:        "0.35",
			participants: 1,
			wantShare:    "0.18",
			wantPayer:    "-0.17",
		},
		{
			name:         "no participants should error",
			total:        "10",
			participants: 0,
			wantErr:      true,
		},
		{
			name:         "zero total should error",
			total:        "0",
			participants: 2,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, payer, err := EqualShare(d(tt.total), tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualShare() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !share.Equal(d(tt.wantShare)) {
				t.Errorf("share = %s, want %s", share, tt.wantShare)
			}
			if !payer.Equal(d(tt.wantPayer)) {
				t.Errorf("payer amount = %s, want %s", payer, tt.wantPayer)
			}
			// payer + one share nets against the total
			if !payer.Neg().Add(share).Equal(d(tt.total)) {
				t.Errorf("share + |payer| = %s, want %s", payer.Neg().Add(share), tt.total)
			}
		})
	}
}
