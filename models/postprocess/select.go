package postprocess

// DefaultMaxResults is the number of detections kept per frame.
const DefaultMaxResults = 5

// SelectTop ranks detections of every class together by descending score and
// keeps at most k of them. This is the only place the global limit is applied.
//
// Arguments:
//   - accepted: Detections that survived suppression. The slice is not modified.
//   - k: Maximum number of detections to keep.
//
// Returns:
//   - At most k detections, highest score first. Equal scores are ordered by
//     Result.Index.
func SelectTop(accepted []Result, k int) []Result {
	if k <= 0 || len(accepted) == 0 {
		return []Result{}
	}

	ranked := make([]Result, len(accepted))
	copy(ranked, accepted)
	sortByRank(ranked)

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
