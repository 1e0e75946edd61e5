package browser

import "testing"

func TestDOIURL(t *testing.T) {
	tests := []struct {
		doi  string
		want string
	}{
		{"10.1103/PhysRevLett.116.061102", "https://doi.org/10.1103/PhysRevLett.116.061102"},
		{"10.1000/182", "https://doi.org/10.1000/182"},
	}

	for _, tt := range tests {
		if got := DOIURL(tt.doi); got != tt.want {
			t.Errorf("DOIURL(%q) = %q, want %q", tt.doi, got, tt.want)
		}
	}
}
