package repository

import "testing"

func TestNormalizePageRequest(t *testing.T) {
	cases := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"zero value", PageRequest{}, PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}},
		{"negative", PageRequest{Page: -3, PageSize: -1}, PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}},
		{"over max", PageRequest{Page: 2, PageSize: 5000}, PageRequest{Page: 2, PageSize: MaxPageSize}},
		{"valid", PageRequest{Page: 3, PageSize: 25}, PageRequest{Page: 3, PageSize: 25}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePageRequest(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCalcTotalPages(t *testing.T) {
	if got := calcTotalPages(0, 10); got != 0 {
		t.Fatalf("empty total: got %d", got)
	}
	if got := calcTotalPages(10, 10); got != 1 {
		t.Fatalf("exact fit: got %d", got)
	}
	if got := calcTotalPages(11, 10); got != 2 {
		t.Fatalf("remainder: got %d", got)
	}
	if got := calcTotalPages(5, 0); got != 0 {
		t.Fatalf("zero page size: got %d", got)
	}
}
