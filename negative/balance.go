package negative

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ChannelRange is the darkest and brightest sample of one channel.
type ChannelRange struct {
	Min, Max float32
}

// ChannelRanges reports the min/max of every channel of src.
func ChannelRanges(src gocv.Mat) ([]ChannelRange, error) {
	if src.Empty() {
		return nil, fmt.Errorf("%w: empty buffer", ErrChannels)
	}
	channels := gocv.Split(src)
	defer closeAll(channels)

	ranges := make([]ChannelRange, len(channels))
	for i, ch := range channels {
		lo, hi, _, _ := gocv.MinMaxLoc(ch)
		ranges[i] = ChannelRange{Min: lo, Max: hi}
	}
	return ranges, nil
}

// AutoColorBalance stretches each channel independently so its minimum
// maps to 0 and its maximum to 255. A channel with no dynamic range is
// passed through unchanged.
func AutoColorBalance(src gocv.Mat) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty buffer", ErrChannels)
	}
	channels := gocv.Split(src)
	defer closeAll(channels)

	stretched := make([]gocv.Mat, 0, len(channels))
	defer func() { closeAll(stretched) }()

	for _, ch := range channels {
		dst := gocv.NewMat()
		lo, hi, _, _ := gocv.MinMaxLoc(ch)
		if lo == hi {
			ch.CopyTo(&dst)
		} else {
			gocv.Normalize(ch, &dst, 0, 255, gocv.NormMinMax)
		}
		stretched = append(stretched, dst)
	}

	out := gocv.NewMat()
	gocv.Merge(stretched, &out)
	return out, nil
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
