package ffprobe

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// mp3DurationByFrames sums frame durations across the whole file. Slower than
// reading the container header but immune to missing or lying Xing/Info tags.
func mp3DurationByFrames(path string) (float64, error) {
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return 0, err
	}
	defer file.Close()

	decoder := mp3.NewDecoder(file)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration()
	}
	if total <= 0 {
		return 0, errors.New("no decodable frames")
	}
	return total.Seconds(), nil
}
