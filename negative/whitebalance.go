package negative

import (
	"gocv.io/x/gocv"
)

// ChannelMeans returns the arithmetic mean of each of the three channels.
func ChannelMeans(src gocv.Mat) ([3]float64, error) {
	if err := checkColor(src); err != nil {
		return [3]float64{}, err
	}
	m := gocv.Mean(src)
	return [3]float64{m.Val1, m.Val2, m.Val3}, nil
}

// WhiteBalance applies a gray-world correction: every channel is scaled by
// grandMean/channelMean so that the three channel means converge. Results
// are rounded and clipped to [0,255]. A channel with a zero mean keeps a
// gain of 1.
func WhiteBalance(src gocv.Mat) (gocv.Mat, error) {
	means, err := ChannelMeans(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	gains := grayWorldGains(means)

	channels := gocv.Split(src)
	defer closeAll(channels)

	scaled := make([]gocv.Mat, 0, len(channels))
	defer func() { closeAll(scaled) }()

	for i, ch := range channels {
		dst := gocv.NewMat()
		ch.ConvertToWithParams(&dst, gocv.MatTypeCV8U, float32(gains[i]), 0)
		scaled = append(scaled, dst)
	}

	out := gocv.NewMat()
	gocv.Merge(scaled, &out)
	return out, nil
}

func grayWorldGains(means [3]float64) [3]float64 {
	grand := (means[0] + means[1] + means[2]) / 3.0

	var gains [3]float64
	for i, m := range means {
		gains[i] = 1
		if m > 0 {
			gains[i] = grand / m
		}
	}
	return gains
}
