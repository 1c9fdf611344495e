package security

import "testing"

func TestValidateURL(t *testing.T) {
	guard := NewSSRFGuard()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"public https", "https://example.com/feed.xml", false},
		{"public http", "http://news.example.org/rss", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"ftp scheme", "ftp://example.com/x", true},
		{"localhost", "http://localhost:8080/", true},
		{"loopback ip", "http://127.0.0.1/", true},
		{"private 10", "http://10.0.0.5/feed", true},
		{"private 192.168", "https://192.168.1.1/", true},
		{"link local metadata", "http://169.254.169.254/latest/meta-data/", true},
		{"ipv6 loopback", "http://[::1]/", true},
		{"missing host", "https:///path-only", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
