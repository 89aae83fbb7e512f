package grid

import "testing"

func TestResetStartsTopLeft(t *testing.T) {
	g := New(3, 3)
	obs := g.Reset()
	if obs[0] != 0 || obs[1] != 0 {
		t.Errorf("expected observation (0,0) after reset, got %v", obs)
	}
}

func TestStepMovesAndClamps(t *testing.T) {
	g := New(3, 3)
	g.Reset()

	obs, reward, done, info := g.Step(ActionRight)
	if obs[1] != 0.5 {
		t.Errorf("expected column 1 of 2 after moving right, got %v", obs)
	}
	if reward != -g.StepPenalty || done {
		t.Errorf("expected a step penalty and no termination, got %v %v", reward, done)
	}
	if info["position"] != "(0, 1)" {
		t.Errorf("unexpected info: %v", info)
	}

	// moves over the border leave the position unchanged
	g.Reset()
	obs, _, _, _ = g.Step(ActionUp)
	if obs[0] != 0 || obs[1] != 0 {
		t.Errorf("expected clamped position at the border, got %v", obs)
	}
	obs, _, _, _ = g.Step(ActionLeft)
	if obs[0] != 0 || obs[1] != 0 {
		t.Errorf("expected clamped position at the border, got %v", obs)
	}
}

func TestReachingGoalEndsEpisode(t *testing.T) {
	g := New(2, 2)
	g.Reset()
	if _, _, done, _ := g.Step(ActionDown); done {
		t.Fatal("episode ended before the goal")
	}
	obs, reward, done, _ := g.Step(ActionRight)
	if !done {
		t.Fatal("expected termination at the goal cell")
	}
	if reward != g.GoalReward {
		t.Errorf("expected the goal reward, got %v", reward)
	}
	if obs[0] != 1 || obs[1] != 1 {
		t.Errorf("expected observation (1,1) at the goal, got %v", obs)
	}
}

func TestActionCount(t *testing.T) {
	if got := New(4, 4).ActionCount(); got != 4 {
		t.Errorf("expected 4 actions, got %d", got)
	}
}
