// Tastefeed - Taste-Matched Travel Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tastefeed

/*
Package allocation partitions a ranked list of scored candidates into the
eight feed slots.

Allocation is a greedy, order-dependent pass. A Pool holds the ranked list and
the set of candidate IDs already placed; every slot step draws from the Pool,
so a candidate can appear in at most one slot. Steps run in this order:

 1. Deep Match: the top unused candidate.
 2. Because You: three cards, one per top dimension when possible.
 3. Taste Tension: the first candidate covering both sides of a contradiction.
 4. Signal Thread: candidates sharing a common matching signal.
 5. Stretch Pick: a lower-scoring candidate with one standout domain.
 6. Weekly Collection: candidates from the dominant unused top dimension.
 7. Mood Boards: up to two more single-domain boards.
 8. Context Recs: whatever ranks highest among the rest.

Selection rules are expressed as Predicate values so each rule can be tested
on its own.

Callers must check HasEnoughCandidates before calling Allocate. A feed built
from fewer candidates is not grounded enough to show.
*/
package allocation
