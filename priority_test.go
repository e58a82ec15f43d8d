package moqt

import "testing"

func TestSendOrderTrackPriorities(t *testing.T) {
	t.Parallel()
	lo := SendOrder(0x00, 0x00, 0, 0, 0, GroupOrderAscending)
	hi := SendOrder(0xff, 0x00, 0, 0, 0, GroupOrderAscending)
	if !(lo > hi) {
		t.Fatalf("lower subscriber priority should outrank higher: lo=%d hi=%d", lo, hi)
	}

	loPub := SendOrder(0x00, 0x00, 0, 0, 0, GroupOrderAscending)
	hiPub := SendOrder(0x00, 0xff, 0, 0, 0, GroupOrderAscending)
	if !(loPub > hiPub) {
		t.Fatalf("lower publisher priority should outrank higher: lo=%d hi=%d", loPub, hiPub)
	}

	subWins := SendOrder(0x00, 0xff, 0, 0, 0, GroupOrderAscending)
	pubWins := SendOrder(0x01, 0x00, 0, 0, 0, GroupOrderAscending)
	if !(subWins > pubWins) {
		t.Fatalf("subscriber priority should dominate publisher priority")
	}
}

func TestSendOrderControlStream(t *testing.T) {
	t.Parallel()
	best := SendOrder(0x00, 0x00, 0, 0, 0, GroupOrderAscending)
	if !(ControlStreamSendOrder > best) {
		t.Fatalf("control stream must outrank any object stream: control=%d best=%d", ControlStreamSendOrder, best)
	}
}

func TestSendOrderPerGroup(t *testing.T) {
	t.Parallel()
	ascLow := SendOrder(0, 0, 1, 0, 0, GroupOrderAscending)
	ascHigh := SendOrder(0, 0, 2, 0, 0, GroupOrderAscending)
	if !(ascHigh > ascLow) {
		t.Fatalf("ascending: higher group id should outrank lower")
	}

	descLow := SendOrder(0, 0, 1, 0, 0, GroupOrderDescending)
	descHigh := SendOrder(0, 0, 2, 0, 0, GroupOrderDescending)
	if !(descLow > descHigh) {
		t.Fatalf("descending: lower group id should outrank higher")
	}
}

func TestSendOrderPerObject(t *testing.T) {
	t.Parallel()
	objLow := SendOrder(0, 0, 5, 1, 0, GroupOrderAscending)
	objHigh := SendOrder(0, 0, 5, 2, 0, GroupOrderAscending)
	if !(objLow > objHigh) {
		t.Fatalf("within a group, lower object id should outrank higher")
	}

	// Group ordering still dominates object ordering across groups.
	earlierGroupLaterObject := SendOrder(0, 0, 5, 100, 0, GroupOrderAscending)
	laterGroupEarlierObject := SendOrder(0, 0, 6, 0, 0, GroupOrderAscending)
	if !(laterGroupEarlierObject > earlierGroupLaterObject) {
		t.Fatalf("group ordering should dominate object ordering")
	}
}

func TestUpdateSendOrderForSubscriberPriority(t *testing.T) {
	t.Parallel()
	prior := SendOrder(5, 10, 3, 2, 1, GroupOrderDescending)
	updated := UpdateSendOrderForSubscriberPriority(prior, 200)
	direct := SendOrder(200, 10, 3, 2, 1, GroupOrderDescending)
	if updated != direct {
		t.Fatalf("got %d want %d", updated, direct)
	}
}
