// Package viz draws soft bodies in the terminal.
//
//   - [Canvas]: braille dot grid, 2×4 dots per character cell
//   - [Camera]: orbiting perspective camera built on mathgl matrices
//   - [Wireframe]: world-space edges from spring segments and a ground grid
//
// [DrawBody] combines them into a single frame:
//
//	canvas := viz.NewCanvas(60, 20)
//	cam := viz.NewCamera()
//	viz.DrawBody(canvas, cam, body, true)
//	fmt.Print(canvas.String())
package viz
