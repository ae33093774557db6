package scene

// Material holds the Phong coefficients of a surface.
// Ambient, Diffuse, Specular and Reflectivity are in [0, 1]; Shininess is the
// Phong exponent and must be positive.
type Material struct {
	Ambient      float64
	Diffuse      float64 // aka albedo
	Specular     float64
	Shininess    float64 // aka gloss
	Reflectivity float64
}

// BasicMaterial is a matte, non-reflective surface used for walls.
func BasicMaterial() Material {
	return Material{
		Ambient:      0.25,
		Diffuse:      1.0,
		Specular:     0.0,
		Shininess:    4.0,
		Reflectivity: 0.0,
	}
}

// Reflective reports whether the material casts reflection rays.
func (m Material) Reflective() bool {
	return m.Reflectivity > 1e-3
}
