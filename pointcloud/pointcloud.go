// Package pointcloud defines the ordered point cloud of a slamlog dataset and its file formats.
//
// Unlike a spatial index, the cloud keeps points in insertion order and allows duplicates: a
// trajectory log may report the same landmark more than once and that history is preserved.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
)

// MetaData is data about what's stored in the point cloud.
type MetaData struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64

	totalX, totalY, totalZ float64
	count                  int
}

// NewMetaData creates an empty MetaData ready for Merge.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge updates the bounds and running centroid with p.
func (meta *MetaData) Merge(p r3.Vector) {
	meta.MinX = math.Min(meta.MinX, p.X)
	meta.MinY = math.Min(meta.MinY, p.Y)
	meta.MinZ = math.Min(meta.MinZ, p.Z)
	meta.MaxX = math.Max(meta.MaxX, p.X)
	meta.MaxY = math.Max(meta.MaxY, p.Y)
	meta.MaxZ = math.Max(meta.MaxZ, p.Z)

	meta.totalX += p.X
	meta.totalY += p.Y
	meta.totalZ += p.Z
	meta.count++
}

// Center returns the centroid of the merged points, or the origin if there are none.
func (meta *MetaData) Center() r3.Vector {
	if meta.count == 0 {
		return r3.Vector{}
	}
	n := float64(meta.count)
	return r3.Vector{X: meta.totalX / n, Y: meta.totalY / n, Z: meta.totalZ / n}
}

// PointCloud is an ordered, read-only view over 3D points.
type PointCloud interface {
	// Size returns the number of points in the cloud.
	Size() int

	// MetaData returns meta data.
	MetaData() MetaData

	// Iterate calls fn for each point in insertion order. If fn returns false, iteration stops.
	Iterate(fn func(i int, p r3.Vector) bool)
}

type orderedPointCloud struct {
	points []r3.Vector
	meta   MetaData
}

// New returns an empty point cloud.
func New() PointCloud {
	return NewFromPoints(nil)
}

// NewFromPoints returns a point cloud over a copy of pts, in order.
func NewFromPoints(pts []r3.Vector) PointCloud {
	cloud := &orderedPointCloud{
		points: make([]r3.Vector, 0, len(pts)),
		meta:   NewMetaData(),
	}
	for _, p := range pts {
		cloud.points = append(cloud.points, p)
		cloud.meta.Merge(p)
	}
	return cloud
}

func (cloud *orderedPointCloud) Size() int {
	return len(cloud.points)
}

func (cloud *orderedPointCloud) MetaData() MetaData {
	return cloud.meta
}

func (cloud *orderedPointCloud) Iterate(fn func(i int, p r3.Vector) bool) {
	for i, p := range cloud.points {
		if !fn(i, p) {
			return
		}
	}
}
