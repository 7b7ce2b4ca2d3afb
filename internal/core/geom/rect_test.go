package geom

import "testing"

func TestIntersects(t *testing.T) {
	player := NewRect(100, 100, 75, 75)

	overlapping := NewRect(150, 160, 35, 30)
	if !player.Intersects(overlapping) || !overlapping.Intersects(player) {
		t.Error("Expected overlapping rectangles to intersect in both directions")
	}

	touchingTop := NewRect(120, 70, 35, 30)
	if player.Intersects(touchingTop) {
		t.Error("Expected rectangles sharing only an edge not to intersect")
	}

	oneRowInside := NewRect(120, 71, 35, 30)
	if !player.Intersects(oneRowInside) {
		t.Error("Expected a one-pixel overlap to intersect")
	}

	farAway := NewRect(500, 500, 35, 30)
	if player.Intersects(farAway) {
		t.Error("Expected distant rectangles not to intersect")
	}

	empty := NewRect(120, 120, 0, 10)
	if player.Intersects(empty) {
		t.Error("Expected an empty rectangle never to intersect")
	}
}

func TestContains(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	if !r.Contains(Point{X: 10, Y: 20}) {
		t.Error("Expected top-left corner to be contained")
	}
	if r.Contains(Point{X: 40, Y: 30}) {
		t.Error("Expected the right edge to be exclusive")
	}
	if r.Contains(Point{X: 20, Y: 60}) {
		t.Error("Expected the bottom edge to be exclusive")
	}
}

func TestClampInside(t *testing.T) {
	bounds := NewRect(0, 0, 1000, 800)

	r := NewRect(-6, 730, 75, 75).ClampInside(bounds)
	if r.X != 0 || r.Y != 725 {
		t.Errorf("Expected (0, 725), got (%d, %d)", r.X, r.Y)
	}

	r = NewRect(931, -3, 75, 75).ClampInside(bounds)
	if r.X != 925 || r.Y != 0 {
		t.Errorf("Expected (925, 0), got (%d, %d)", r.X, r.Y)
	}

	inside := NewRect(400, 400, 75, 75)
	if got := inside.ClampInside(bounds); got != inside {
		t.Errorf("Expected %+v to be unchanged, got %+v", inside, got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}
	if got := Clamp(5, 3, 1); got != 3 {
		t.Errorf("Expected lower bound when range is inverted, got %d", got)
	}
}
