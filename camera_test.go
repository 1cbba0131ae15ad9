package furnish

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestRayIntersectPlaneY(t *testing.T) {
	tests := []struct {
		name    string
		ray     Ray
		want    mgl64.Vec3
		wantErr bool
	}{
		{"straight down", Ray{Origin: mgl64.Vec3{1, 5, 2}, Direction: mgl64.Vec3{0, -1, 0}}, mgl64.Vec3{1, 0, 2}, false},
		{"slanted", Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: mgl64.Vec3{1, -1, 0}}, mgl64.Vec3{2, 0, 0}, false},
		{"parallel", Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: mgl64.Vec3{1, 0, 0}}, mgl64.Vec3{}, true},
		{"pointing away", Ray{Origin: mgl64.Vec3{0, 2, 0}, Direction: mgl64.Vec3{0, 1, 0}}, mgl64.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.ray.IntersectPlaneY(0)
			if tt.wantErr {
				if !errors.Is(err, ErrNoIntersection) {
					t.Fatalf("err = %v, want ErrNoIntersection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("IntersectPlaneY: %v", err)
			}
			if !got.ApproxEqualThreshold(tt.want, epsilon) {
				t.Errorf("hit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopDownCameraRoundtrip(t *testing.T) {
	cam := NewTopDownCamera(Rect{Width: 800, Height: 600}, 50)
	ground, err := cam.ScreenRay(500, 200).IntersectPlaneY(0)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(ground.X(), 2, epsilon) || !approxEqual(ground.Z(), -2, epsilon) {
		t.Errorf("ground = %v, want (2, 0, -2)", ground)
	}
	sx, sy, ok := cam.Project(ground)
	if !ok || !approxEqual(sx, 500, epsilon) || !approxEqual(sy, 200, epsilon) {
		t.Errorf("Project = (%v, %v, %v), want (500, 200, true)", sx, sy, ok)
	}
}

func TestPerspectiveCameraCenterRayHitsTarget(t *testing.T) {
	cam := NewPerspectiveCamera(Rect{Width: 1280, Height: 720})
	ground, err := cam.ScreenRay(640, 360).IntersectPlaneY(0)
	if err != nil {
		t.Fatalf("IntersectPlaneY: %v", err)
	}
	if !ground.ApproxEqualThreshold(cam.Target, 1e-4) {
		t.Errorf("center ray hit %v, want target %v", ground, cam.Target)
	}
}

func TestPerspectiveCameraProjectRoundtrip(t *testing.T) {
	cam := NewPerspectiveCamera(Rect{X: 10, Y: 20, Width: 1280, Height: 720})
	p := mgl64.Vec3{2, 0, -1.5}

	sx, sy, ok := cam.Project(p)
	if !ok {
		t.Fatal("point in front of the camera reported behind")
	}
	ground, err := cam.ScreenRay(sx, sy).IntersectPlaneY(0)
	if err != nil {
		t.Fatalf("IntersectPlaneY: %v", err)
	}
	if !ground.ApproxEqualThreshold(p, 1e-4) {
		t.Errorf("roundtrip = %v, want %v", ground, p)
	}
}

func TestPerspectiveCameraBehind(t *testing.T) {
	cam := NewPerspectiveCamera(Rect{Width: 800, Height: 600})
	behind := cam.Eye().Add(cam.Eye().Sub(cam.Target))
	if _, _, ok := cam.Project(behind); ok {
		t.Error("point behind the eye should not project")
	}
}

func TestPerspectiveCameraOrbitClampsPolar(t *testing.T) {
	cam := NewPerspectiveCamera(Rect{Width: 800, Height: 600})
	cam.Orbit(0, 10)
	if !approxEqual(cam.Polar, orbitMaxPolar, epsilon) {
		t.Errorf("Polar = %v, want max %v", cam.Polar, orbitMaxPolar)
	}
	cam.Orbit(0, -10)
	if !approxEqual(cam.Polar, orbitMinPolar, epsilon) {
		t.Errorf("Polar = %v, want min %v", cam.Polar, orbitMinPolar)
	}
	cam.Orbit(3*math.Pi, 0)
	if cam.Azimuth < 0 || cam.Azimuth >= 2*math.Pi {
		t.Errorf("Azimuth = %v not wrapped", cam.Azimuth)
	}
	if cam.Eye().Y() <= 0 {
		t.Errorf("eye below floor: %v", cam.Eye())
	}
}
