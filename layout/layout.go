// Package layout reads YAML descriptions of thicket scenes: nested nodes,
// cells and the portals between them, and cameras. It is used by demos and
// tests to build scenes without hand-written graph code.
package layout

import (
	"io"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/thicket"
	"gopkg.in/yaml.v3"
)

// ErrTypeInvalidLayout is attached to every error returned for a malformed
// document.
const ErrTypeInvalidLayout = "layout_invalid"

// Layout is the top-level document.
type Layout struct {
	Nodes   []NodeSpec   `yaml:"nodes"`
	Cameras []CameraSpec `yaml:"cameras"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	Name string `yaml:"name"`
	// Type is container, cell, portal, geometry or anchor.
	Type string `yaml:"type"`

	Position []float64 `yaml:"position,omitempty"`
	// Rotation is Euler angles in degrees, applied Y then X then Z.
	Rotation []float64 `yaml:"rotation,omitempty"`
	Scale    []float64 `yaml:"scale,omitempty"`

	Bounds *BoundsSpec `yaml:"bounds,omitempty"`
	Hidden bool        `yaml:"hidden,omitempty"`

	Target   string      `yaml:"target,omitempty"`
	Vertices [][]float64 `yaml:"vertices,omitempty"`

	EntityID uint32     `yaml:"entity_id,omitempty"`
	Children []NodeSpec `yaml:"children,omitempty"`
}

// BoundsSpec is a local-space box given by center and half extents.
type BoundsSpec struct {
	Center []float64 `yaml:"center"`
	Half   []float64 `yaml:"half"`
}

// CameraSpec describes a camera mounted on a new anchor node.
type CameraSpec struct {
	Name string `yaml:"name"`
	// Parent is the scene path the camera anchor is attached under.
	Parent   string    `yaml:"parent"`
	Position []float64 `yaml:"position,omitempty"`
	LookAt   []float64 `yaml:"look_at,omitempty"`
	// FovY is the vertical field of view in degrees.
	FovY     float64   `yaml:"fov_y,omitempty"`
	Near     float64   `yaml:"near,omitempty"`
	Far      float64   `yaml:"far,omitempty"`
	NoCull   bool      `yaml:"no_cull,omitempty"`
	Viewport []float64 `yaml:"viewport,omitempty"`
}

// Load decodes a layout document.
func Load(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, errors.New("decoding layout failed").
			WithType(ErrTypeInvalidLayout).
			Wrap(err)
	}
	return &l, nil
}

// Decode reads and decodes a layout document from r.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.New("decoding layout failed").
			WithType(ErrTypeInvalidLayout).
			Wrap(err)
	}
	return &l, nil
}

// Build adds the layout's nodes under the scene root and creates its cameras,
// returned in document order. Cameras are built after every node, so they may
// be mounted anywhere in the layout.
func (l *Layout) Build(s *thicket.Scene) ([]*thicket.Camera, error) {
	for _, spec := range l.Nodes {
		if err := buildNode(s, s.Root(), spec); err != nil {
			return nil, err
		}
	}

	cams := make([]*thicket.Camera, 0, len(l.Cameras))
	for _, spec := range l.Cameras {
		cam, err := buildCamera(s, spec)
		if err != nil {
			return nil, err
		}
		cams = append(cams, cam)
	}
	return cams, nil
}

func buildNode(s *thicket.Scene, parent *thicket.Node, spec NodeSpec) error {
	n, err := newNode(spec)
	if err != nil {
		return err
	}
	if err := applyTransform(n, spec.Position, spec.Rotation, spec.Scale); err != nil {
		return invalid(err, spec.Name)
	}
	n.Visible = !spec.Hidden
	n.EntityID = spec.EntityID
	if err := s.AddChild(parent, spec.Name, n); err != nil {
		return err
	}
	for _, child := range spec.Children {
		if err := buildNode(s, n, child); err != nil {
			return err
		}
	}
	return nil
}

func newNode(spec NodeSpec) (*thicket.Node, error) {
	var n *thicket.Node
	switch spec.Type {
	case "container", "":
		n = thicket.NewContainer()
	case "cell":
		n = thicket.NewCell()
	case "anchor":
		n = thicket.NewAnchor()
	case "geometry":
		if spec.Bounds == nil {
			return nil, invalidf("geometry needs bounds", spec.Name)
		}
		n = thicket.NewGeometry(thicket.AABB{})
	case "portal":
		if len(spec.Vertices) < 3 {
			return nil, invalidf("portal needs at least three vertices", spec.Name)
		}
		verts := make([]mgl64.Vec3, len(spec.Vertices))
		for i, v := range spec.Vertices {
			p, err := vec3(v, mgl64.Vec3{})
			if err != nil {
				return nil, invalid(err, spec.Name)
			}
			verts[i] = p
		}
		n = thicket.NewPortal(spec.Target, verts...)
	default:
		return nil, invalidf("unknown node type "+spec.Type, spec.Name)
	}

	if spec.Bounds != nil {
		center, err := vec3(spec.Bounds.Center, mgl64.Vec3{})
		if err != nil {
			return nil, invalid(err, spec.Name)
		}
		half, err := vec3(spec.Bounds.Half, mgl64.Vec3{})
		if err != nil {
			return nil, invalid(err, spec.Name)
		}
		n.SetBounds(thicket.Box(center, half))
	}
	return n, nil
}

func buildCamera(s *thicket.Scene, spec CameraSpec) (*thicket.Camera, error) {
	parent := s.Find(spec.Parent)
	if parent == nil {
		return nil, invalidf("camera parent not found: "+spec.Parent, spec.Name)
	}
	anchor := thicket.NewAnchor()
	if err := applyTransform(anchor, spec.Position, nil, nil); err != nil {
		return nil, invalid(err, spec.Name)
	}
	if err := s.AddChild(parent, spec.Name, anchor); err != nil {
		return nil, err
	}

	var viewport thicket.Rect
	switch len(spec.Viewport) {
	case 0:
	case 4:
		viewport = thicket.Rect{
			X:      spec.Viewport[0],
			Y:      spec.Viewport[1],
			Width:  spec.Viewport[2],
			Height: spec.Viewport[3],
		}
	default:
		return nil, invalidf("viewport needs x, y, width and height", spec.Name)
	}

	cam := s.NewCamera(spec.Name, anchor, viewport)
	if spec.FovY > 0 {
		cam.FovY = mgl64.DegToRad(spec.FovY)
	}
	if spec.Near > 0 {
		cam.Near = spec.Near
	}
	if spec.Far > 0 {
		cam.Far = spec.Far
	}
	cam.CullEnabled = !spec.NoCull
	if spec.LookAt != nil {
		target, err := vec3(spec.LookAt, mgl64.Vec3{})
		if err != nil {
			return nil, invalid(err, spec.Name)
		}
		cam.LookAt(target)
	}
	return cam, nil
}

func applyTransform(n *thicket.Node, pos, rot, scale []float64) error {
	if pos != nil {
		p, err := vec3(pos, mgl64.Vec3{})
		if err != nil {
			return err
		}
		n.SetPosition(p)
	}
	if rot != nil {
		r, err := vec3(rot, mgl64.Vec3{})
		if err != nil {
			return err
		}
		q := mgl64.AnglesToQuat(
			mgl64.DegToRad(r[1]),
			mgl64.DegToRad(r[0]),
			mgl64.DegToRad(r[2]),
			mgl64.YXZ,
		)
		n.SetRotation(q)
	}
	if scale != nil {
		sc, err := vec3(scale, mgl64.Vec3{1, 1, 1})
		if err != nil {
			return err
		}
		n.SetScale(sc)
	}
	return nil
}

// vec3 converts a YAML sequence of three numbers.
func vec3(v []float64, def mgl64.Vec3) (mgl64.Vec3, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 3 {
		return def, errors.New("expected three components").WithTag("got", len(v))
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return def, errors.New("component is not a finite number")
		}
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

func invalid(err error, name string) error {
	return errors.New("invalid layout").
		WithType(ErrTypeInvalidLayout).
		WithTag("node", name).
		Wrap(err)
}

func invalidf(msg, name string) error {
	return errors.New(msg).
		WithType(ErrTypeInvalidLayout).
		WithTag("node", name)
}
