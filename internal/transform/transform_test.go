package transform

import "testing"

func TestTransformRewritesEligibleFile(t *testing.T) {
	code := `function C(){ const x=1; useInlineTask(()=>{ console.log(x); }); return <div/>; }`
	out, err := Transform(code, "component.tsx")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Code == "" {
		t.Fatal("expected an edited output")
	}
	if out.Map == nil {
		t.Error("expected a source map")
	}
}

func TestTransformSkipsUnrecognisedExtension(t *testing.T) {
	code := `useInlineTask(() => {});`
	out, err := Transform(code, "notes.md")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Code != "" {
		t.Error("expected no output for a non-script extension")
	}
}

func TestTransformSkipsFileWithoutHook(t *testing.T) {
	code := `function C(){ return <div/>; }`
	out, err := Transform(code, "component.tsx")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Code != "" {
		t.Error("expected no output when the hook identifier is absent")
	}
}

func TestTransformSkipsVendorPath(t *testing.T) {
	code := `function C(){ const x=1; useInlineTask(()=>{ console.log(x); }); return <div/>; }`
	out, err := Transform(code, "project/node_modules/pkg/component.tsx")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Code != "" {
		t.Error("expected no output for a vendor-directory path")
	}
}
