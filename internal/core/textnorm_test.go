package core

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"accents and case", "Dirección de Envío", "direccion de envio"},
		{"enye", "Compañía", "compania"},
		{"punctuation collapses", "  C.P. / Código-Postal  ", "c p codigo postal"},
		{"underscore is a separator", "postal_code", "postal code"},
		{"mojibake repaired", "DirecciÃ³n", "direccion"},
		{"invalid bytes dropped", "ciu\xffdad", "ciudad"},
		{"digits kept", "Zona 2", "zona 2"},
		{"empty", "", ""},
		{"only symbols", "¿?¡!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	for _, s := range []string{"Dirección", "Nombre y Apellidos", "CP", "es_extranjero", "Envío"} {
		once := NormalizeText(s)
		if twice := NormalizeText(once); twice != once {
			t.Errorf("NormalizeText not idempotent for %q: %q then %q", s, once, twice)
		}
	}
}
