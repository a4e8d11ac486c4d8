package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".py"); spec != nil {
		t.Errorf("ForExtension(.py) should be nil, got %v", spec)
	}
}

func TestIsScriptExtension(t *testing.T) {
	for _, ext := range []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"} {
		if !IsScriptExtension(ext) {
			t.Errorf("IsScriptExtension(%q) = false, want true", ext)
		}
	}
	if IsScriptExtension(".json") {
		t.Error("IsScriptExtension(.json) = true, want false")
	}
}

func TestLanguageForExtension(t *testing.T) {
	l, ok := LanguageForExtension(".tsx")
	if !ok || l != TSX {
		t.Errorf("LanguageForExtension(.tsx) = %s, %v, want TSX, true", l, ok)
	}
	if _, ok := LanguageForExtension(".rs"); ok {
		t.Error("LanguageForExtension(.rs) should not be registered")
	}
}
