package engine

// RewardShaper adds exploration and progress terms to the game's reward.
type RewardShaper struct {
	RevisitPenalty float64
	DiscoveryBonus float64
	DepthBonus     float64
	StepCost       float64
}

// DefaultRewardShaper returns the shaping used by the trainer.
func DefaultRewardShaper() RewardShaper {
	return RewardShaper{
		RevisitPenalty: 0.5,
		DiscoveryBonus: 5,
		DepthBonus:     50,
		StepCost:       0.1,
	}
}

// ShapeInput is the per-turn data the shaper looks at.
type ShapeInput struct {
	Raw         float64
	Position    Position
	HasPosition bool
	Depth       Depth
	PriorDepth  Depth
	Discovered  bool
}

// Shape returns the learning reward. prior holds the positions of earlier
// steps only; the current position must not have been appended yet.
func (r RewardShaper) Shape(in ShapeInput, prior *VisitHistory) float64 {
	reward := in.Raw
	if in.HasPosition && prior != nil && prior.Visited(in.Position) {
		reward -= r.RevisitPenalty
	}
	if in.Discovered {
		reward += r.DiscoveryBonus
	}
	if in.Depth.Known && in.PriorDepth.Known {
		reward += r.DepthBonus * float64(in.Depth.Level-in.PriorDepth.Level)
	}
	return reward - r.StepCost
}
