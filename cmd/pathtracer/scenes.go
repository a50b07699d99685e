package main

import (
	"fmt"

	"pathtracer/materials"
	"pathtracer/math"
	"pathtracer/scene"
)

// buildScene constructs one of the canned scenes used for manual testing
// from the command line.
func buildScene(name string, width, height, spp int) (*scene.Scene, error) {
	switch name {
	case "empty":
		cam := scene.NewCamera(width, height, spp)
		return scene.NewScene(cam), nil

	case "sphere":
		cam := scene.NewCamera(width, height, spp)
		scn := scene.NewScene(cam)
		scn.AddSphere(scene.NewSphere(math.NewVec3(0, 0, -1), 0.5, materials.NewLambertian(math.NewVec3(1, 0, 0))))
		return scn, nil

	case "book1":
		cam := scene.NewCamera(width, height, spp)
		cam.SetLookFrom(math.NewVec3(13, 2, 3))
		cam.SetLookAt(math.Vec3Zero)
		cam.SetVfov(20)
		cam.SetDefocus(0.6, 10)

		scn := scene.NewScene(cam)
		scn.AddSphere(scene.NewSphere(math.NewVec3(0, -1000, 0), 1000, materials.NewLambertian(math.NewVec3(0.5, 0.5, 0.5))))
		scn.AddSphere(scene.NewSphere(math.NewVec3(0, 1, 0), 1.0, materials.NewDielectric(1.5)))
		scn.AddSphere(scene.NewSphere(math.NewVec3(-4, 1, 0), 1.0, materials.NewLambertian(math.NewVec3(0.4, 0.2, 0.1))))
		scn.AddSphere(scene.NewSphere(math.NewVec3(4, 1, 0), 1.0, materials.NewMetallic(math.NewVec3(0.7, 0.6, 0.5), 0)))
		return scn, nil

	default:
		return nil, fmt.Errorf("unknown scene %q (want empty, sphere, or book1)", name)
	}
}
