/*
Package negative converts photographs of colour film negatives into
positive images.

A Processor decodes a source file, finds the exposed frame against the
black scanner background (DetectBorder), trims the sprocket margin
(Shrink, Crop), inverts the negative (Invert), stretches every channel to
full range (AutoColorBalance) and finally applies a gray-world correction
(WhiteBalance). Each stage returns a new gocv.Mat and leaves its input
untouched, so stages can be used and tested on their own.
*/
package negative
