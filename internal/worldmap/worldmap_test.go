package worldmap

import "testing"

func TestGenerateDimsAndDeterminism(t *testing.T) {
	cfg := DefaultGenConfig(10, 10, 42)
	a := Generate(cfg)
	b := Generate(cfg)

	if a.Width != 10 || a.Height != 10 {
		t.Fatalf("dims = %dx%d, want 10x10", a.Width, a.Height)
	}
	for i := range a.Elevation {
		if a.Elevation[i] != b.Elevation[i] || a.Biome[i] != b.Biome[i] {
			t.Fatalf("same seed produced different maps at cell %d", i)
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	a := Generate(DefaultGenConfig(10, 10, 1))
	b := Generate(DefaultGenConfig(10, 10, 2))

	same := true
	for i := range a.Elevation {
		if a.Elevation[i] != b.Elevation[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical elevation fields")
	}
}

func TestMaskInvariants(t *testing.T) {
	m := Generate(DefaultGenConfig(24, 24, 7))
	for i := range m.Elevation {
		e := m.Elevation[i]
		if m.WaterMask[i] != (e <= 0) {
			t.Fatalf("cell %d: water mask inconsistent with elevation %v", i, e)
		}
		if m.MountainMask[i] != (e >= 3000) {
			t.Fatalf("cell %d: mountain mask inconsistent with elevation %v", i, e)
		}
		wantAccessible := e > 0 && e < 2000
		if m.AccessibilityMask[i] != wantAccessible {
			t.Fatalf("cell %d: accessibility mask inconsistent with elevation %v", i, e)
		}
		if m.WaterMask[i] && m.Biome[i] != BiomeOcean {
			t.Fatalf("cell %d: water cell classified as %v, want Ocean", i, m.Biome[i])
		}
		if m.MountainMask[i] && m.Biome[i] != BiomeMountain {
			t.Fatalf("cell %d: mountain cell classified as %v, want Mountain", i, m.Biome[i])
		}
	}
}

func TestLatLonLayout(t *testing.T) {
	m := Generate(DefaultGenConfig(4, 2, 1))
	if m.Lat[m.idx(0, 0)] != 90 {
		t.Fatalf("top row latitude = %v, want 90", m.Lat[m.idx(0, 0)])
	}
	if m.Lon[m.idx(0, 0)] != -180 {
		t.Fatalf("left column longitude = %v, want -180", m.Lon[m.idx(0, 0)])
	}
}

func TestClassifyOceanAndFallback(t *testing.T) {
	if got := classify(20, 0.5, -10); got != BiomeOcean {
		t.Fatalf("classify(elev<=0) = %v, want Ocean", got)
	}
	if got := classify(10, 0.5, 4000); got != BiomeMountain {
		t.Fatalf("classify(elev>=3000) = %v, want Mountain", got)
	}
}

func TestReprojectIdentitySize(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	out := Reproject(src, 3, 3, 3, 3)
	if len(out) != 9 {
		t.Fatalf("Reproject output len = %d, want 9", len(out))
	}
}

func TestReprojectResizes(t *testing.T) {
	src := make([]float64, 4*4)
	for i := range src {
		src[i] = float64(i)
	}
	out := Reproject(src, 4, 4, 8, 8)
	if len(out) != 64 {
		t.Fatalf("Reproject output len = %d, want 64", len(out))
	}
}

func TestMapRGBAExpandsRGBWithOpaqueAlpha(t *testing.T) {
	m := Generate(DefaultGenConfig(5, 5, 3))
	rgba := m.RGBA()
	if len(rgba) != len(m.Color)*4 {
		t.Fatalf("RGBA() len = %d, want %d", len(rgba), len(m.Color)*4)
	}
	for i, rgb := range m.Color {
		if rgba[i*4+0] != rgb[0] || rgba[i*4+1] != rgb[1] || rgba[i*4+2] != rgb[2] {
			t.Fatalf("cell %d: RGBA mismatch with Color %v", i, rgb)
		}
		if rgba[i*4+3] != 255 {
			t.Fatalf("cell %d: alpha = %d, want 255", i, rgba[i*4+3])
		}
	}
}
