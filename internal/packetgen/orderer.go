package packetgen

import (
	"go.uber.org/zap"

	"sockbowl/internal/model"
	"sockbowl/internal/refgraph"
)

// orderTossups sorts the set so any answer referenced by another question
// appears earlier in the packet. The ordering graph reverses the reference
// graph: referenced-answer -> referencing-question. When Kahn's algorithm
// cannot complete (a cycle slipped through), the original order is returned
// unchanged; ordering is a quality concern, acyclicity was enforced upstream.
func orderTossups(tossups []model.Tossup, references *refgraph.Graph, log *zap.Logger) []model.Tossup {
	order, ok := references.Reversed().TopoOrder()
	if !ok || len(order) != len(tossups) {
		log.Warn("could not order all questions, keeping original order")
		return tossups
	}

	ordered := make([]model.Tossup, 0, len(tossups))
	for _, idx := range order {
		ordered = append(ordered, tossups[idx])
	}
	log.Info("questions reordered to minimize giveaways")
	return ordered
}
