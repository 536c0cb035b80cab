package pagination

import "testing"

func TestNormalizeClampsValues(t *testing.T) {
	tests := []struct {
		name      string
		in        Params
		wantPage  int
		wantLimit int
		wantSort  string
	}{
		{name: "zero values", in: Params{}, wantPage: 1, wantLimit: DefaultLimit, wantSort: "created_at"},
		{name: "negative page", in: Params{Page: -3, Limit: 10}, wantPage: 1, wantLimit: 10, wantSort: "created_at"},
		{name: "limit above max", in: Params{Page: 2, Limit: 5000}, wantPage: 2, wantLimit: MaxLimit, wantSort: "created_at"},
		{name: "allowed sort", in: Params{SortBy: "total_cents"}, wantPage: 1, wantLimit: DefaultLimit, wantSort: "total_cents"},
		{name: "rejected sort clamps", in: Params{SortBy: "password; DROP TABLE orders"}, wantPage: 1, wantLimit: DefaultLimit, wantSort: "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.SortBy != tt.wantSort {
				t.Fatalf("Normalize(%+v) = %+v", tt.in, got)
			}
		})
	}
}

func TestOffsetAndOrderClause(t *testing.T) {
	params := Normalize(Params{Page: 3, Limit: 20, SortBy: "order_number", SortDesc: true})
	if params.Offset() != 40 {
		t.Fatalf("unexpected offset %d", params.Offset())
	}
	if params.OrderClause() != "order_number DESC" {
		t.Fatalf("unexpected order clause %q", params.OrderClause())
	}
}
