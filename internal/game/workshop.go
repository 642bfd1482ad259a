package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cardclash/bot/internal/domain/cards"
	"github.com/cardclash/bot/internal/domain/enhance"
	"github.com/cardclash/bot/internal/domain/events"
	"github.com/cardclash/bot/internal/domain/fusion"
	"github.com/cardclash/bot/internal/domain/rules"
)

// TrainCooldown is how long a player waits between training sessions.
const TrainCooldown = time.Hour

func (s *Service) fusionEngine() *fusion.Engine {
	opts := []fusion.Option{fusion.WithCosts(s.cfg.FusionCosts), fusion.WithClock(s.now)}
	if s.newID != nil {
		opts = append(opts, fusion.WithIDFunc(s.newID))
	}
	return fusion.NewEngine(s.catalog, s.src, opts...)
}

func (s *Service) enhanceEngine() *enhance.Engine {
	var opts []enhance.Option
	if s.cfg.EnhanceCostPerLevel > 0 {
		opts = append(opts, enhance.WithCostPerLevel(s.cfg.EnhanceCostPerLevel))
	}
	return enhance.NewEngine(s.src, opts...)
}

// PreviewFusion shows what fusing the given cards would produce.
func (s *Service) PreviewFusion(ctx context.Context, userID string, materialIDs []string) (fusion.Preview, error) {
	materials, err := s.owned(ctx, userID, materialIDs)
	if err != nil {
		return fusion.Preview{}, err
	}
	return s.fusionEngine().Preview(materials)
}

// Fuse consumes three same-rarity cards and creates one of the next rarity.
func (s *Service) Fuse(ctx context.Context, userID string, materialIDs []string) (fusion.Outcome, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var out fusion.Outcome
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		materials, err := s.owned(ctx, userID, materialIDs)
		if err != nil {
			return err
		}

		out, err = s.fusionEngine().Fuse(userID, materials, u.Balance)
		if err != nil {
			return err
		}

		if err := s.cards.DeleteMany(ctx, out.Consumed); err != nil {
			return fmt.Errorf("failed to consume materials: %w", err)
		}
		if err := s.cards.Create(ctx, out.Card); err != nil {
			return fmt.Errorf("failed to store fused card: %w", err)
		}
		return s.users.UpdateBalance(ctx, userID, out.Balance)
	})
	if err != nil {
		return fusion.Outcome{}, err
	}

	s.publish(ctx, events.CardsFused{UserID: userID, Consumed: out.Consumed, Result: out.Card, Cost: out.Cost})
	return out, nil
}

// EnhancePlan is the preview of an enhancement plus the materials that would
// be consumed.
type EnhancePlan struct {
	Target    *cards.Card
	Preview   enhance.Preview
	Materials []*cards.Card
	Balance   int64
}

// Ready reports whether enough copies are available.
func (p EnhancePlan) Ready() bool {
	return len(p.Materials) >= cards.EnhanceMaterials
}

// PlanEnhance picks the weakest unlocked copies of the target's template as
// materials.
func (s *Service) PlanEnhance(ctx context.Context, userID, targetID string) (EnhancePlan, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return EnhancePlan{}, err
	}
	return s.planEnhance(ctx, userID, targetID, u.Balance)
}

func (s *Service) planEnhance(ctx context.Context, userID, targetID string, balance int64) (EnhancePlan, error) {
	list, err := s.owned(ctx, userID, []string{targetID})
	if err != nil {
		return EnhancePlan{}, err
	}
	target := list[0]

	preview, err := s.enhanceEngine().Preview(target)
	if err != nil {
		return EnhancePlan{}, err
	}

	copies, err := s.cards.GetByTemplate(ctx, userID, target.TemplateID)
	if err != nil {
		return EnhancePlan{}, fmt.Errorf("failed to load copies of %s: %w", target.TemplateID, err)
	}

	candidates := make([]*cards.Card, 0, len(copies))
	for _, c := range copies {
		if c.ID == target.ID || c.IsLocked {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Level != candidates[j].Level {
			return candidates[i].Level < candidates[j].Level
		}
		return candidates[i].BasePower() < candidates[j].BasePower()
	})
	if len(candidates) > cards.EnhanceMaterials {
		candidates = candidates[:cards.EnhanceMaterials]
	}

	return EnhancePlan{Target: target, Preview: preview, Materials: candidates, Balance: balance}, nil
}

// Enhance levels up targetID using ten duplicates chosen by PlanEnhance.
func (s *Service) Enhance(ctx context.Context, userID, targetID string) (enhance.Outcome, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var out enhance.Outcome
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		plan, err := s.planEnhance(ctx, userID, targetID, u.Balance)
		if err != nil {
			return err
		}
		if !plan.Ready() {
			return rules.Reject(rules.InvalidMaterials,
				"you need %d unlocked copies of %s, you have %d",
				cards.EnhanceMaterials, plan.Target.Name, len(plan.Materials))
		}

		out, err = s.enhanceEngine().Enhance(plan.Target, plan.Materials, u.Balance)
		if err != nil {
			return err
		}

		if err := s.cards.DeleteMany(ctx, out.Consumed); err != nil {
			return fmt.Errorf("failed to consume materials: %w", err)
		}
		if err := s.cards.Update(ctx, out.Card); err != nil {
			return fmt.Errorf("failed to store enhanced card: %w", err)
		}
		return s.users.UpdateBalance(ctx, userID, out.Balance)
	})
	if err != nil {
		return enhance.Outcome{}, err
	}

	s.publish(ctx, events.CardEnhanced{
		UserID:   userID,
		Card:     out.Card,
		Consumed: out.Consumed,
		Cost:     out.Cost,
		Success:  out.Success,
	})
	return out, nil
}

// Train runs one training session on a card, once per TrainCooldown.
func (s *Service) Train(ctx context.Context, userID, cardID string) (enhance.TrainingResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var out enhance.TrainingResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.user(ctx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if next := u.LastTrainedAt.Add(TrainCooldown); now.Before(next) {
			return rules.Reject(rules.InvalidTransition, "you can train again in %s", next.Sub(now).Round(time.Minute))
		}

		list, err := s.owned(ctx, userID, []string{cardID})
		if err != nil {
			return err
		}

		out = enhance.Train(list[0])
		if err := s.cards.Update(ctx, out.Card); err != nil {
			return fmt.Errorf("failed to store trained card: %w", err)
		}
		u.LastTrainedAt = now
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return enhance.TrainingResult{}, err
	}

	s.publish(ctx, events.CardTrained{UserID: userID, Card: out.Card, StatUps: len(out.StatUps)})
	return out, nil
}
