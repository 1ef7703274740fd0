package urlcat

import "slices"

// plan is the outcome of resolving a global range against resource lengths:
// keep urls[skipFront:len(urls)-skipBack] and read them with rng.
type plan struct {
	skipFront int
	skipBack  int
	rng       *Range
}

// resolveRange maps a requested global range onto the resources described
// by lengths.
//
// Without a request nothing is pruned and no range applies. When no
// resource reported a length, nothing can be pruned and the request is
// passed through unchanged.
//
// Otherwise leading resources are dropped while the running length does not
// exceed the remaining start offset, which is reduced by each dropped
// length. Trailing resources are then dropped from a count seeded at one
// resource past the first kept one, and the end becomes
// requested.End-requested.Start+1.
func resolveRange(lengths []int64, requested *Range) plan {
	n := len(lengths)
	if requested == nil {
		return plan{}
	}

	var total int64
	for _, l := range lengths {
		total += l
	}
	if total <= 0 {
		rng := *requested
		return plan{rng: &rng}
	}

	var (
		p         plan
		rng       Range
		chunkSize = lengths[0]
		i         int
	)

	if requested.Start > 0 {
		rng.Start = requested.Start

		for i = 0; i < n; i++ {
			if chunkSize > rng.Start {
				break
			}
			if i+1 < n {
				chunkSize += lengths[i+1]
			}
			rng.Start -= lengths[i]
			p.skipFront++
		}
	}

	p.skipBack = n - p.skipFront - 1

	if requested.End > requested.Start {
		if i < n && chunkSize > lengths[i] {
			chunkSize -= lengths[i]
		}

		for j := 0; j < n; j++ {
			if chunkSize < requested.End {
				break
			}
			chunkSize -= lengths[j]
			p.skipBack--
		}

		rng.End = requested.End - requested.Start + 1
	}

	p.skipBack = max(0, min(p.skipBack, n-p.skipFront))
	p.rng = &rng
	return p
}

// apply returns a copy of the kept part of urls.
func (p plan) apply(urls []string) []string {
	lo := min(p.skipFront, len(urls))
	hi := max(lo, len(urls)-p.skipBack)
	return slices.Clone(urls[lo:hi])
}
