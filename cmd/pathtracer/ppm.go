package main

import (
	"bufio"
	"fmt"
	"os"

	"pathtracer/render"
)

// writePPM writes the session's finished RGBA8 buffer out as a binary
// PPM (P6), dropping the alpha channel. Session must already be
// finished (or aborted) before calling this.
func writePPM(path string, session *render.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	width, height := session.Width(), session.Height()
	fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height)

	img := session.Image()
	rgb := make([]byte, 3)
	for i := 0; i < width*height; i++ {
		rgb[0] = img[i*4+0]
		rgb[1] = img[i*4+1]
		rgb[2] = img[i*4+2]
		if _, err := w.Write(rgb); err != nil {
			return fmt.Errorf("write pixel %d: %w", i, err)
		}
	}

	return w.Flush()
}
