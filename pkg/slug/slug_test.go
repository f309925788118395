package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Laptop Stand", "laptop-stand"},
		{"USB-C Hub (7-in-1)", "usb-c-hub-7-in-1"},
		{"  Wireless   Headphones!  ", "wireless-headphones"},
		{"Çocuk Ürünleri", "cocuk-urunleri"},
		{"Kadın Giyim", "kadin-giyim"},
		{"Café Crème", "cafe-creme"},
		{"Straße", "strasse"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}
