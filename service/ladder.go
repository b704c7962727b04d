package service

// Resolution rungs we can generate for a video
var rungs = []int{360, 720, 1080}

// PlanLadder decides which resolution variants to build for a source
// of the given height. Rungs above the source are skipped, we never
// upscale. A source below 360p gets no ladder at all, original only.
func PlanLadder(sourceHeight int) []int {
	var out []int

	for _, r := range rungs {
		if r <= sourceHeight {
			out = append(out, r)
		}
	}

	return out
}
