package sniffer

import (
	"errors"
	"net/http"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, TypePNG},
		{"gif87a", []byte("GIF87a...."), TypeGIF},
		{"gif89a", []byte("GIF89a...."), TypeGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := DetectHead(tc.head)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if res.Type != tc.want {
				t.Fatalf("type = %s, want %s", res.Type, tc.want)
			}
		})
	}
}

func TestDetectHeadRejectsNonImages(t *testing.T) {
	cases := []struct {
		name string
		head []byte
	}{
		{"empty", nil},
		{"texto", []byte("hola mundo")},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)},
		{"pdf", []byte("%PDF-1.7")},
		{"riff sin webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt ")},
		{"png truncado", []byte{0x89, 'P', 'N'}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DetectHead(tc.head); !errors.Is(err, ErrNotAnImage) {
				t.Fatalf("err = %v, want ErrNotAnImage", err)
			}
		})
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"image/png", "image/png"},
		{"image/jpeg; charset=binary", "image/jpeg"},
		{"", ""},
	}
	for _, tc := range cases {
		h := http.Header{}
		if tc.header != "" {
			h.Set("Content-Type", tc.header)
		}
		if got := MimeTypeFromHTTP(h); got != tc.want {
			t.Fatalf("MimeTypeFromHTTP(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
