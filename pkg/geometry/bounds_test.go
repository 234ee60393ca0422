package geometry

import "testing"

func TestAABB_Corners(t *testing.T) {
	b := NewAABB(Vector2D{10, 0}, Vector2D{5, 50})
	if got, want := b.Min(), (Vector2D{5, -50}); !got.Eq(want) {
		t.Errorf("Min = %v; want %v", got, want)
	}
	if got, want := b.Max(), (Vector2D{15, 50}); !got.Eq(want) {
		t.Errorf("Max = %v; want %v", got, want)
	}
}

func TestAABB_ClosestPoint(t *testing.T) {
	b := NewAABB(Vector2D{0, 0}, Vector2D{2, 1})
	tests := []struct {
		name string
		p    Vector2D
		want Vector2D
	}{
		{"inside is itself", Vector2D{1, 0.5}, Vector2D{1, 0.5}},
		{"left of box", Vector2D{-10, 0}, Vector2D{-2, 0}},
		{"above box", Vector2D{0.5, 7}, Vector2D{0.5, 1}},
		{"diagonal corner", Vector2D{5, -5}, Vector2D{2, -1}},
		{"on edge", Vector2D{2, 0}, Vector2D{2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.ClosestPoint(tt.p); !got.Eq(tt.want) {
				t.Errorf("ClosestPoint(%v) = %v; want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestAABB_Contains(t *testing.T) {
	b := NewAABB(Vector2D{0, 0}, Vector2D{1, 1})
	if !b.Contains(Vector2D{1, -1}) {
		t.Error("corner should be contained")
	}
	if b.Contains(Vector2D{1.01, 0}) {
		t.Error("point outside should not be contained")
	}
}

func TestCircle_IntersectsAABB(t *testing.T) {
	b := NewAABB(Vector2D{0, 0}, Vector2D{5, 5})
	tests := []struct {
		name string
		c    Circle
		want bool
	}{
		{"center inside", Circle{Vector2D{0, 0}, 1}, true},
		{"overlapping edge", Circle{Vector2D{6, 0}, 2}, true},
		{"touching edge", Circle{Vector2D{7, 0}, 2}, true},
		{"clear of edge", Circle{Vector2D{7.5, 0}, 2}, false},
		{"near corner but outside", Circle{Vector2D{7, 7}, 2}, false},
		{"overlapping corner", Circle{Vector2D{6, 6}, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IntersectsAABB(b); got != tt.want {
				t.Errorf("%v r=%v IntersectsAABB = %v; want %v", tt.c.Center, tt.c.Radius, got, tt.want)
			}
		})
	}
}
