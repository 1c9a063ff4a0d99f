package material

// BxdfType represents the surface types supported by the renderer.
type BxdfType int

const (
	bxdfInvalid BxdfType = iota
	BxdfDiffuse
	BxdfMicroFacet
	BxdfMirror
)

// Lookup bxdf type by its name.
func BxdfTypeFromName(name string) BxdfType {
	switch name {
	case "diffuse":
		return BxdfDiffuse
	case "microFacet":
		return BxdfMicroFacet
	case "mirror":
		return BxdfMirror
	}

	return bxdfInvalid
}

// IsValid returns true if t refers to a supported surface type.
func (t BxdfType) IsValid() bool {
	return t > bxdfInvalid && t <= BxdfMirror
}

func (t BxdfType) String() string {
	switch t {
	case BxdfDiffuse:
		return "diffuse"
	case BxdfMicroFacet:
		return "microFacet"
	case BxdfMirror:
		return "mirror"
	}

	return "invalid"
}
