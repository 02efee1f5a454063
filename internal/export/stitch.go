package export

import (
	"fmt"
	"io"
	"time"

	"povthread/internal/models"
)

const stitchSurfaceLab = `
/*  -----------------
    |  Surface lab  |
    -----------------  */

//       Surface finish variants
#declare thingie_finish_1 = finish{phong 0.1 phong_size 1}  // Dull
#declare thingie_finish_2 = finish{ambient 0.1 diffuse 0.5 specular 1.0 reflection 0.5 roughness 0.01}  // Shiny

//       Simple texture normal variants
// Constant, normal placeholder
#declare thingie_normal_0 = normal {function {1}}

// Regular threads
#declare thingie_normal_1 = normal {function{abs(sin(16*y))} rotate <0, 0, 30>}

// Perlin noise, elongated
#declare thingie_normal_3 = normal {function{f_noise_generator(x, 16*y, z, 3)} rotate <0, 0, 10>}

// Double wire
#declare thingie_normal_4 = normal {function{abs(sin(32*y*y))}}

/*  --------------------------------
    |  Complex texture normal lab  |
    --------------------------------  */

// Layered texture a-la cotton pearl

   #declare rot = - 0.6; // Controls rotation/skew degree
   #declare den = 24; // Controls threads density
   #declare f1 = function(x, y, z) {(den/360) * degrees(atan(z/(x + rot*y)))} // Angular, skewed by "rot"
   #declare f2 = function(x, y, z) {abs(cos(f1(x, y, z)))} // Ripples on angular
   #declare f3 = function(x, y, z) {0.5*f_noise_generator(1*x, 200*(y+x), 1*z, 3)} // Perlin rescaled diagonally
   #declare f4 = function(x, y, z) {f2(x,y,z) - 0.5*f3(x,y,z)} // Adding base thread and Perlin fibers together

#declare thingie_normal_2 = normal {function {f4(x,y,z)} slope_map {[0 <-6, 1>] [0.3 <0.5, 0.7>] [1 <1, 0>]}
  rotate <0, 0, 0>}  // Rotate normal here


/*  -----------------------
    |  Thingies facility  |
    -----------------------  */

#declare t_width = 1.0;     // Makes thread wider, coefficient (normally > 1)
#declare t_thick = 1;       // Makes whole fabric thicker, coefficient
#declare t_base  = 0.25;    // Base minimal radius, handle with care
#declare t_off   = 2.0 * t_base;  // Internal var, better not handle at all

// MAIN THINGIE OBJECT
#declare thingie = torus {0.5, t_base*t_thick scale <1, t_width, t_thick>}  // MAIN THINGIE

#declare thingie_finish = thingie_finish_1
#declare thingie_normal = thingie_normal_1

#declare cm = function(k) {k}   // Color transfer function for all channels, all thingies
// #declare cm = function(k) {pow(k,(1/0.5))}   // Example of Gamma = 0.5

//       Per-thingie normal modifiers
#declare normal_move_rnd   = <0, 0, 0>;  // Random move of normal map. No constrains on values
#declare normal_rotate_rnd = <0, 0, 0>;  // Random rotate of normal map. Values in degrees

/*  ---------------------------------------------------------
    |  Space canvas Distortion lab (avoid being distorted)  |
    ---------------------------------------------------------  */

#declare scale_rnd  = <0, 0, 0>;  // Rescale thingies according to Perlin noise, see "Distortion functions" below.

#declare move_rnd  = <0, 0, 0>;   // Move thingies according to Perlin noise, same pattern as rescale.

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
}
`

// Stitch writes a POV-Ray scene rebuilding the image as cross-stitch
// embroidery: every opaque-enough pixel becomes a union of two half-torus
// threads crossed at plus and minus 45 degrees. Partially transparent
// pixels are alpha-dithered, randomly dropping objects so transparency
// survives as stitch density.
func (e *Exporter) Stitch(w io.Writer, img *models.ImageData) error {
	if err := validateForExport(img); err != nil {
		return err
	}

	v := view{d: img}
	out := newSceneWriter(w)
	now := e.now()

	e.logger.Info("Exporter", "stitch export started", map[string]interface{}{
		"width":  img.Width,
		"height": img.Height,
	})

	out.printf(`/*
Persistence of Vision Ray Tracer Scene Description File
Version: 3.7
Description: Mosaic picture simulating cross stitch
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

#include "finish.inc"
#include "metals.inc"
#include "golds.inc"
#include "glass.inc"
#include "functions.inc"

`)

	out.print(stitchSurfaceLab)

	out.printf(`
//       Seed random
#declare rnd_1 = seed(%d);

background{color rgbft <0, 0, 0, 1, 1>}

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
  direction <0, 0, vlength(camera_position - <0.0, 0.0, %g>)>  // May alone work for many pictures. Otherwise fiddle with angle below
  angle 2.0*(degrees(atan2(%g, vlength(camera_position - <0.0, 0.0, %g>)))) // Supposed to fit object, unless thingies are too high
  look_at <0.0, 0.0, 0.0>
}

light_source{0*x
  color rgb <1.1, 1.0, 1.0>
//  area_light <0.5, 0, 0>, <0, 0.5, 0>, 5, 5 circular orient area_illumination on
  translate <-4, 1, 3>
}

light_source{0*x
  color rgb <0.9, 1.0, 1.0>
//  area_light <0.5, 0, 0>, <0, 0.5, 0>, 5, 5 circular orient area_illumination on
  translate <1, -3, 4>
}


/*  ----------------------------------------------
    |  Insert preset to override settings above  |
    ----------------------------------------------  */

// #include "preset.inc"    // Set path and name of your file related to scene file


// Object thething made out of thingies
#declare thething = union{
`,
		now.UnixMicro(),
		1.0/float64(max(img.Width, img.Height)),
		0.5*float64(max(img.Width, img.Height))/float64(img.Width),
		1.0/float64(max(img.Width, img.Height)))

	scaleXYZ := 1.0 / float64(max(img.Width, img.Height))
	const normalString = "normal{thingie_normal rotate(normal_rotate_rnd * (<rand(rnd_1), rand(rnd_1), rand(rnd_1)> - 0.5)) translate(normal_move_rnd * <rand(rnd_1), rand(rnd_1), rand(rnd_1)>)}"

	objects := 0
	for y := 0; y < img.Height; y++ {
		out.printf("\n  // Row %d\n", y)
		for x := 0; x < img.Width; x++ {
			// Alpha dithering: transparency becomes a per-pixel chance to
			// skip the stitch, with the range stretched by one percent on
			// both ends so fully opaque and fully transparent stay exact.
			a := 1.02*v.alpha(x, y) - 0.01
			if a < e.rand.Float64() {
				continue
			}

			r, g, b := v.rgb(x, y)
			rotate1 := fmt.Sprintf("(rotate_rnd * <distort_r1(rot_pat_x*%g, rot_pat_y*%g, rand(rnd_1))-0.5, 0, 0>)",
				scaleXYZ*float64(x), scaleXYZ*float64(y))
			rotate2 := fmt.Sprintf("(rotate_rnd * <distort_r2(rot_pat_x*%g, rot_pat_y*%g, rand(rnd_1))-0.5, 0, 0>)",
				scaleXYZ*float64(x), scaleXYZ*float64(y))

			out.printf(`    union{
      object {thingie
        pigment{rgb<cm(%g), cm(%g), cm(%g)>}
        finish{thingie_finish} %s
        scale(<1, 1, 1+t_off>)
        rotate(<0, 0, 45.0> + %s)
        clipped_by{plane{-z,0}}
      }
      object {thingie
        pigment{rgb<cm(%g), cm(%g), cm(%g)>}
        finish{thingie_finish} %s
        scale(<1, 1, 1-t_off>)
        rotate(<0, 0, -45.0> + %s)
        clipped_by{plane{-z,0}}
      }
     scale (<1, 1, 1> + (scale_rnd * distort_s(scl_pat_x*%g, scl_pat_y*%g, rand(rnd_1) - 0.5) ) )
     translate move_rnd * (distort_s(scl_pat_x*%g, scl_pat_y*%g, rand(rnd_1)) - 0.5)
     translate <%d, %d, 0>
    }
`,
				r, g, b, normalString, rotate1,
				r, g, b, normalString, rotate2,
				scaleXYZ*float64(x), scaleXYZ*float64(y),
				scaleXYZ*float64(x), scaleXYZ*float64(y),
				x, y)
			objects += 2
		}
	}

	out.printf(`
  // Object transforms to fit 1, 1, 1 cube at 0, 0, 0 coordinates
  translate <0.5, 0.5, 0> + <%g, %g, 0>
  scale<%g, %g, %g>
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

*/`,
		-0.5*float64(img.Width), -0.5*float64(img.Height),
		scaleXYZ, scaleXYZ, scaleXYZ)

	if err := out.flush(); err != nil {
		return err
	}

	e.logger.Info("Exporter", "stitch export completed", map[string]interface{}{
		"objects": objects,
	})
	return nil
}
