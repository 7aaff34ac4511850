package cpu

import "testing"

func TestSupports(t *testing.T) {
	all := Features{HasSSE2: true, HasAVX2: true, HasNEON: true}
	for _, level := range []SIMDLevel{SIMDNone, SIMDSSE2, SIMDAVX2, SIMDNEON} {
		if !Supports(all, level) {
			t.Fatalf("Supports(all, %v) = false", level)
		}
	}

	none := Features{}
	if !Supports(none, SIMDNone) {
		t.Fatal("Supports(none, SIMDNone) = false")
	}
	for _, level := range []SIMDLevel{SIMDSSE2, SIMDAVX2, SIMDNEON} {
		if Supports(none, level) {
			t.Fatalf("Supports(none, %v) = true", level)
		}
	}
}

func TestSupportsForceGeneric(t *testing.T) {
	f := Features{HasSSE2: true, HasAVX2: true, ForceGeneric: true}
	if !Supports(f, SIMDNone) {
		t.Fatal("ForceGeneric must still allow the generic kernel")
	}
	if Supports(f, SIMDAVX2) {
		t.Fatal("ForceGeneric must disable SIMD kernels")
	}
}

func TestForcedFeaturesOverrideDetection(t *testing.T) {
	defer ResetDetection()

	SetForcedFeatures(Features{ForceGeneric: true, Architecture: "test"})
	got := DetectFeatures()
	if !got.ForceGeneric || got.Architecture != "test" {
		t.Fatalf("DetectFeatures() = %+v, want forced features", got)
	}

	ResetDetection()
	if DetectFeatures().Architecture == "test" {
		t.Fatal("ResetDetection did not clear forced features")
	}
}

func TestSIMDLevelString(t *testing.T) {
	cases := map[SIMDLevel]string{
		SIMDNone:      "None",
		SIMDSSE2:      "SSE2",
		SIMDAVX2:      "AVX2",
		SIMDNEON:      "NEON",
		SIMDLevel(99): "Unknown",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", int(level), got, want)
		}
	}
}
