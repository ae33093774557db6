package radiosity

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/marcher/pkg/math3d"
	"github.com/taigrr/marcher/pkg/scene"
)

// ExportCloud writes the patches as a binary glTF point cloud. Each point
// carries POSITION, NORMAL and a COLOR_0 holding radiance[i] tone-clamped to
// [0, 1], so the bake can be inspected in any glTF viewer.
func ExportCloud(path string, c *Cloud, radiance []scene.Colour) error {
	doc, err := cloudDocument(c, radiance)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func cloudDocument(c *Cloud, radiance []scene.Colour) (*gltf.Document, error) {
	if len(radiance) != c.Len() {
		return nil, fmt.Errorf("export cloud: %d radiance values for %d patches", len(radiance), c.Len())
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("export cloud: no patches")
	}

	positions := make([][3]float32, c.Len())
	normals := make([][3]float32, c.Len())
	colours := make([][3]float32, c.Len())
	for i, p := range c.Patches {
		positions[i] = float3(p.Position)
		normals[i] = float3(p.Normal)
		colours[i] = float3(radiance[i].Clamp(0, 1))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "marcher"
	attrs := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		gltf.COLOR_0:  modeler.WriteColor(doc, colours),
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: "patches",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "lightmap-patches", Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Name: "bake", Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc, nil
}

func float3(v math3d.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
