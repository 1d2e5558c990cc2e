package gcp

import "testing"

func TestContentTypeForKey(t *testing.T) {
	cases := map[string]string{
		"certificates/abc.png": "image/png",
		"exports/board.XLSX":   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"events/1.json":        "application/json",
		"certificates/abc":     "",
	}
	for key, want := range cases {
		if got := contentTypeForKey(key); got != want {
			t.Fatalf("contentTypeForKey(%q): want=%q got=%q", key, want, got)
		}
	}
}

func TestPublicURL(t *testing.T) {
	bs := &bucketService{bucket: "certs"}
	if got := bs.PublicURL("certificates/x.png"); got != "https://storage.googleapis.com/certs/certificates/x.png" {
		t.Fatalf("unexpected url %q", got)
	}
	bs.cdnDomain = "cdn.example.com"
	if got := bs.PublicURL("certificates/x.png"); got != "https://cdn.example.com/certificates/x.png" {
		t.Fatalf("unexpected cdn url %q", got)
	}
}

func TestPublicURLEmulator(t *testing.T) {
	bs := &bucketService{bucket: "certs", publicBase: "http://localhost:4443"}
	want := "http://localhost:4443/storage/v1/b/certs/o/certificates%2Fx.png?alt=media"
	if got := bs.PublicURL("certificates/x.png"); got != want {
		t.Fatalf("unexpected emulator url %q", got)
	}
}
