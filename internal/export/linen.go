package export

import (
	"fmt"
	"io"
	"time"

	"povthread/internal/models"
)

const linenSurfaceLab = `
/*  -----------------
    |  Surface lab  |
    -----------------  */

//       Surface finish variants
#declare thingie_finish_1 = finish{phong 0.1 phong_size 1};  // Dull
#declare thingie_finish_2 = finish{ambient 0.1 diffuse 0.5 specular 1.0 reflection 0.5 roughness 0.01};  // Shiny

//       Simple texture normal variants
// Constant, normal placeholder
#declare thingie_normal_0 = normal {function {1}};

// Regular threads
#declare thingie_normal_1 = normal {function{abs(sin(16*y))} rotate <0, 0, 30>};

// Perlin noise, elongated
#declare thingie_normal_3 = normal {function{f_noise_generator(x, 16*y, z, 3)} rotate <0, 0, 10>};

// Double wire
#declare thingie_normal_4 = normal {function{abs(sin(32*y*y))}};

/*  --------------------------------
    |  Complex texture normal lab  |
    --------------------------------  */

// Layered texture a-la cotton pearl

   #declare rot = 1.5; // Controls rotation/skew degree
   #declare den = 24;  // Controls threads density
   #declare f1 = function(x, y, z) {(den/360) * degrees(atan(z/(x + rot*y)))}; // Angular, skewed by "rot"
   #declare f2 = function(x, y, z) {abs(cos(f1(x, y, z)))}; // Ripples on angular
   #declare f3 = function(x, y, z) {0.5*f_noise_generator(1*x, 200*(y+x), 1*z, 3)}; // Perlin rescaled diagonally
   #declare f4 = function(x, y, z) {f2(x,y,z) * f3(x,y,z)}; // Multiplying base thread and Perlin fibers

#declare thingie_normal_2 = normal {function {f4(x,y,z)} slope_map {[0 <-2, 1>] [0.3 <0.5, 0.7>] [1 <1, 0>]}
  rotate <0, 0, 0>};  // Rotate normal here


/*  -----------------------
    |  Thingies facility  |
    -----------------------  */

#declare t_width = 1.25;    // Makes thread wider, coefficient (normally > 1)
#declare t_thick = 1;       // Makes whole fabric thicker, coefficient
#declare t_base  = 0.3;     // Base minimal radius, handle with care

// MAIN THINGIE OBJECT
#declare thingie = torus {0.5, t_base*t_thick scale <1, t_width, t_thick>};  // MAIN THINGIE

#declare thingie_finish = thingie_finish_1;
#declare thingie_normal = thingie_normal_1;

#declare cm = function(k) {k};   // Color transfer function for all channels, all thingies
// #declare cm = function(k) {pow(k,(1/0.5))};   // Example of Gamma = 0.5

//       Per-thingie normal modifiers
#declare normal_move_rnd   = <0, 0, 0>;  // Random move of normal map. No constrains on values
#declare normal_rotate_rnd = <0, 0, 0>;  // Random rotate of normal map. Values in degrees

/*  ---------------------------------------------------------
    |  Space canvas Distortion lab (avoid being distorted)  |
    ---------------------------------------------------------  */

#declare scale_rnd  = 0;    // Rescale thingies according to Perlin noise, see "Distortion functions" below.
#declare scl_pat_x = 6;     // Perlin patterns per X.
#declare scl_pat_y = 6;     // Perlin patterns per Y.

#declare rotate_rnd = 0;    // Rotate thingies according to Perlin noise. Arbitrary value, normally 0..100
#declare rot_pat_x = 6;     // Perlin patterns per X.
#declare rot_pat_y = 6;     // Perlin patterns per Y.

/*  -----------------------------------------------------
    |  Distortion functions, see help.html for details  |
    -----------------------------------------------------  */

#declare distort_s = function(x, y, z) {f_noise_generator(x, y, 0, 3)};     // Scale pattern, currently slice of 3D Perlin noise at z = 0.
#declare distort_r1 = function(x, y, z) {f_noise_generator(x, y, 0, 3)};    // Rotation pattern (upper), currently slice of 3D Perlin noise at z = 0.
#declare distort_r2 = function(x, y, z) {f_noise_generator(x, y, 0.5, 3)};  // Rotation pattern (lower), currently slice of 3D Perlin noise at z = 0.5 to remove visual match between upper and lower.

// #declare distort_s = function(x, y, z) {z}; // Regular random example

/*  --------------------------------------------------
    |  Some properties for whole thething and scene  |
    --------------------------------------------------  */

//       Common transform for the whole thething, placed here just to avoid scrolling
#declare thething_transform = transform {
  // You can place your global scale, rotate etc. here
};
`

const linenCameraAndLights = `
/*   ---------------------
    |  Camera and light  |
    ----------------------
  NOTE: Coordinate system match Photoshop,
  origin is top left, z points to the viewer.
  Sky vector is important!
----------------------------------------------  */

#declare camera_position = <0.0, 0.0, 3.0>;  // Camera position over object, used for view angle

camera{
//  orthographic
  location camera_position
  right x*image_width/image_height
  up y
  sky <0, -1, 0>
  direction <0, 0, vlength(camera_position - <0.0, 0.0, 1.0 / max(X, Y)>)>  // May alone work for many pictures. Otherwise fiddle with angle below
  angle 2.0*(degrees(atan2(0.5 * image_width * max(X/image_width, Y/image_height) / max(X, Y), vlength(camera_position - <0.0, 0.0, 1.0 / max(X, Y)>)))) // Supposed to fit object
  look_at <0.0, 0.0, 0.0>
}

light_source{0*x
  color rgb <1.1, 1.0, 1.0>
//  area_light <0.5, 0, 0>, <0, 0.5, 0>, 5, 5 circular orient area_illumination on
  translate <-4, -3, 2>
}

light_source{0*x
  color rgb <0.9, 1.0, 1.0>
//  area_light <0.5, 0, 0>, <0, 0.5, 0>, 5, 5 circular orient area_illumination on
  translate <1, -2, 3>
}


/*  ----------------------------------------------
    |  Insert preset to override settings above  |
    ----------------------------------------------  */

// #include "preset.inc"    // Set path and name of your file related to scene file

`

// Linen writes a POV-Ray scene rebuilding the image as a woven linen
// pattern: every pixel becomes a pair of half-torus threads, alternating
// horizontal over vertical in a checkerboard.
func (e *Exporter) Linen(w io.Writer, img *models.ImageData) error {
	if err := validateForExport(img); err != nil {
		return err
	}

	v := view{d: img}
	out := newSceneWriter(w)
	now := e.now()

	e.logger.Info("Exporter", "linen export started", map[string]interface{}{
		"width":  img.Width,
		"height": img.Height,
	})

	out.printf(`/*
Persistence of Vision Ray Tracer Scene Description File
Version: 3.7
Description: Mosaic picture simulating textile, linen pattern
Source image properties: Width %d px, Height %d px, Colors per channel: %d
File automatically generated at %s by %s
   https://github.com/Dnyarri/POVthread
*/

`, img.Width, img.Height, img.MaxColors, now.Format(time.ANSIC), generatorName)

	out.print(`
#version 3.7;

global_settings{
    max_trace_level 3   // Small to speed up preview. May need to be increased for metals
    adc_bailout 0.01    // High to speed up preview. May need to be decreased to 1/256
    assumed_gamma 1.0
    ambient_light <0.5, 0.5, 0.5>
    charset utf8
}

#include "functions.inc"

`)

	out.print(linenSurfaceLab)

	out.printf(`
//       Seed random
#declare rnd_1 = seed(%d);

background{color rgbft <0, 0, 0, 1, 1>}

/*  -----------------------------------------
    |  Source image width and height.       |
    |  Necessary for further calculations.  |
    -----------------------------------------  */

#declare X = %d;  // Source image width, px
#declare Y = %d;  // Source image height, px
`, now.UnixMicro(), img.Width, img.Height)

	out.print(linenCameraAndLights)

	out.print("\n// Object thething made out of thingies\n#declare thething = union{\n")

	scaleXYZ := 1.0 / float64(max(img.Width, img.Height))
	const normalString = "normal{thingie_normal rotate(normal_rotate_rnd * (<rand(rnd_1), rand(rnd_1), rand(rnd_1)> - 0.5)) translate(normal_move_rnd * <rand(rnd_1), rand(rnd_1), rand(rnd_1)>)}"

	for y := 0; y < img.Height; y++ {
		out.printf("\n  // Row %d\n", y)
		for x := 0; x < img.Width; x++ {
			r, g, b := v.rgb(x, y)

			scaleString := fmt.Sprintf("scale(<1, 1, 1> + (scale_rnd * <0, 0, distort_s(scl_pat_x*%g, scl_pat_y*%g, rand(rnd_1))-0.5>))",
				scaleXYZ*float64(x), scaleXYZ*float64(y))
			rotateHorz := fmt.Sprintf("rotate(rotate_rnd * <distort_r1(rot_pat_x*%g, rot_pat_y*%g, rand(rnd_1))-0.5, 0, 0>)",
				scaleXYZ*float64(x), scaleXYZ*float64(y))
			rotateVert := fmt.Sprintf("rotate(<0, 0, 90> + (rotate_rnd * <distort_r2(rot_pat_x*%g, rot_pat_y*%g, rand(rnd_1))-0.5, 0, 0>))",
				scaleXYZ*float64(x), scaleXYZ*float64(y))

			// Checker pattern decides which thread of the pair lies on top.
			upperFirst := (y+1)%2 == (x+1)%2
			firstClip, secondClip := "z", "-z"
			if !upperFirst {
				firstClip, secondClip = "-z", "z"
			}

			writeLinenThread(out, r, g, b, normalString, scaleString, rotateHorz, x, y, firstClip)
			writeLinenThread(out, r, g, b, normalString, scaleString, rotateVert, x, y, secondClip)
		}
	}

	out.print(`
  // Object transforms to fit 1, 1, 1 cube at 0, 0, 0 coordinates
  translate <0.5, 0.5, 0> + <-0.5 * X, -0.5 * Y, 0>
  scale<1.0 / max(X, Y), 1.0 / max(X, Y), 1.0 / max(X, Y)>
} // thething closed


object {thething
  transform {thething_transform}
}

/*

happy rendering

  0~0
 (---)
(.>|<.)
-------

*/`)

	if err := out.flush(); err != nil {
		return err
	}

	e.logger.Info("Exporter", "linen export completed", map[string]interface{}{
		"objects": img.Width * img.Height * 2,
	})
	return nil
}

func writeLinenThread(out *sceneWriter, r, g, b float64, normalString, scaleString, rotateString string, x, y int, clipPlane string) {
	out.printf(`    object {thingie
      pigment{rgb<cm(%g), cm(%g), cm(%g)>}
      finish{thingie_finish} %s
      %s
      %s
      translate<%d, %d, 0>
      clipped_by{plane{%s,0}}
    }
`, r, g, b, normalString, scaleString, rotateString, x, y, clipPlane)
}
