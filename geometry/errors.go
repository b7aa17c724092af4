package geometry

import "errors"

// Arena errors.
var (
	// ErrInvalidHandle indicates a handle that was never issued or was released.
	ErrInvalidHandle = errors.New("invalid geometry handle")

	// ErrNilShape indicates an attempt to store a nil shape.
	ErrNilShape = errors.New("shape is nil")
)

// Tool errors.
var (
	// ErrInvalidSubMesh indicates a sub-mesh index outside the mesh.
	ErrInvalidSubMesh = errors.New("invalid sub-mesh index")

	// ErrTriangleList indicates a UV triangle list whose length is not a
	// multiple of three.
	ErrTriangleList = errors.New("triangle list length must be a multiple of 3")
)
