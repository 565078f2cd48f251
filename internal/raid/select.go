package raid

import (
	"sort"

	"raidctl/internal/raiderr"
)

// spanCandidatesFor returns the legal total-span counts for level: just {1}
// for non-spanned levels, else every span from 2 to 8.
func spanCandidatesFor(level Level) []int {
	if !level.IsSpanned() {
		return []int{1}
	}
	return []int{2, 3, 4, 5, 6, 7, 8}
}

func partitionByMediaType(disks []*PhysicalDisk) map[string][]*PhysicalDisk {
	out := make(map[string][]*PhysicalDisk)
	for _, d := range disks {
		out[d.MediaType] = append(out[d.MediaType], d)
	}
	return out
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return a
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

func filterByMinCapacity(disks []*PhysicalDisk, required int64) []*PhysicalDisk {
	if required <= 0 {
		return disks
	}
	out := make([]*PhysicalDisk, 0, len(disks))
	for _, d := range disks {
		if d.CapacityBytes >= required {
			out = append(out, d)
		}
	}
	return out
}

// FindBestSolution searches available for the disk set that best satisfies
// targetCapacity under level, honoring an optional caller-specified disk
// count (preferredCount). JBOD short-circuits to (nil, nil): it has no
// selection. A non-nil error is returned only when preferredCount was given
// and is not legal for any span of this level (InvalidPhysicalDiskNumber);
// a nil Solution with a nil error means no combination of available disks
// meets the target at all, and callers pick the context-appropriate
// LackOfDiskSpace / SpecifiedDisksHasNotEnoughSpace kind.
//
// For every homogeneous media-type grouping of available disks, and every
// legal span, it walks every legal disk count, scores every sliding window of
// that many consecutive qualifying disks (ascending by capacity), keeps any
// window that improves on the current best, and, for a fixed target, stops
// trying larger counts once no disk of the media-type group was filtered
// out by the per-disk capacity requirement.
func FindBestSolution(targetCapacity int64, available []*PhysicalDisk, level Level, preferredCount *int) (*Solution, error) {
	if level.Key == "JBOD" {
		return nil, nil
	}

	sub := SubLevelOf(level)
	spans := spanCandidatesFor(level)
	byMedia := partitionByMediaType(available)

	var best *Solution
	preferredLegalSomewhere := preferredCount == nil

	for _, disksOfMedia := range byMedia {
		sorted := make([]*PhysicalDisk, len(disksOfMedia))
		copy(sorted, disksOfMedia)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].CapacityBytes < sorted[j].CapacityBytes })

		for _, span := range spans {
			minCount := sub.MinDisks * span
			maxCount := sub.MaxDisks * span
			if sub.MaxDisks <= 0 || maxCount <= 0 {
				maxCount = len(sorted)
			}

			if preferredCount != nil {
				if *preferredCount%span != 0 {
					continue
				}
				perSpan := *preferredCount / span
				if perSpan < sub.MinDisks || (sub.MaxDisks > 0 && perSpan > sub.MaxDisks) {
					continue
				}
				preferredLegalSomewhere = true
				minCount, maxCount = *preferredCount, *preferredCount
			}

			if maxCount > len(sorted) {
				maxCount = len(sorted)
			}
			overhead := OverheadPerSpan(level) * span

			for diskCount := minCount; diskCount <= maxCount; diskCount += span {
				if diskCount <= 0 || diskCount > len(sorted) {
					continue
				}
				usable := int64(diskCount - overhead)
				var required int64
				if targetCapacity > 0 {
					if usable <= 0 {
						continue
					}
					required = ceilDiv(targetCapacity, usable)
				}

				qualifying := filterByMinCapacity(sorted, required)
				if len(qualifying) < diskCount {
					continue
				}

				for start := 0; start+diskCount <= len(qualifying); start++ {
					window := qualifying[start : start+diskCount]
					candidate := NewSolution(span, window, level)
					if candidate.IsBetterThan(targetCapacity, best) {
						best = candidate
					}
				}

				if len(qualifying) == len(sorted) && targetCapacity > 0 {
					// No larger disk count can do anything but waste more of
					// this media-type group; further counts would only
					// rediscover (a subset of) the same candidates.
					break
				}
			}
		}
	}

	if !preferredLegalSomewhere {
		return nil, raiderr.New(raiderr.KindInvalidPhysicalDiskNum,
			"specified physical disk number is not legal for this raid level")
	}
	return best, nil
}
