package moqt

// ControlStreamSendOrder is the scheduler key reserved for the control
// stream: its top bit is never set by SendOrder, so the control stream
// always outranks every object stream regardless of priority or ordering.
const ControlStreamSendOrder uint64 = 1 << 63

const (
	groupBits    = 24
	objectBits   = 16
	subgroupBits = 6

	groupMask    = 1<<groupBits - 1
	objectMask   = 1<<objectBits - 1
	subgroupMask = 1<<subgroupBits - 1

	subgroupShift = 0
	objectShift   = subgroupShift + subgroupBits
	groupShift    = objectShift + objectBits
	pubPriShift   = groupShift + groupBits
	subPriShift   = pubPriShift + 8
)

// clamp saturates v to the largest value representable in the given number
// of bits, rather than silently wrapping — two streams beyond the
// representable range still compare in the right relative order to
// everything below the cap, which is all a scheduling heuristic needs.
func clamp(v uint64, bits uint) uint64 {
	max := uint64(1)<<bits - 1
	if v > max {
		return max
	}
	return v
}

// SendOrder computes the 64-bit scheduler key described in §4.7: smaller
// MoQT priority values (subscriber or publisher) yield a larger key, the
// group id is oriented by groupOrder, the object id always favors the
// earliest object in a group, and the subgroup id is the innermost
// tiebreak. Grounded in original_source/moqt/src/tests/moqt_priority_test.rs,
// the only surviving source for this function.
func SendOrder(subscriberPriority, publisherPriority uint8, groupID, objectID, subgroupID uint64, groupOrder GroupOrder) uint64 {
	invSubPri := uint64(0xff - subscriberPriority)
	invPubPri := uint64(0xff - publisherPriority)

	group := clamp(groupID, groupBits)
	if groupOrder == GroupOrderDescending {
		group = groupMask - group
	}

	obj := objectMask - clamp(objectID, objectBits)
	sub := clamp(subgroupID, subgroupBits)

	return invSubPri<<subPriShift |
		invPubPri<<pubPriShift |
		group<<groupShift |
		obj<<objectShift |
		sub<<subgroupShift
}

// UpdateSendOrderForSubscriberPriority recomputes a send order after a
// subscriber re-prioritizes an existing subscription, changing only the
// subscriber-priority field and leaving every other component of prior
// untouched.
func UpdateSendOrderForSubscriberPriority(prior uint64, newSubscriberPriority uint8) uint64 {
	const subPriMask = uint64(0xff) << subPriShift
	invSubPri := uint64(0xff-newSubscriberPriority) << subPriShift
	return (prior &^ subPriMask) | invSubPri
}
