// tuner/train.go
package tuner

import (
	"fmt"

	"ndp-engine/cube"
	"ndp-engine/engine"
)

// pretrain fits a fresh network of size s to one-step lookahead targets computed with
// the current table, then appends it to the table.
func (a *Agent) pretrain(s int) error {
	a.setPhase(Phase{Stage: Pretraining, Size: s})
	h := a.cfg.Hyper

	net := a.factory(s)
	opt, err := NewOptimizer(h.Optimizer, net.NumParams(), h.PretrainLR)
	if err != nil {
		return err
	}
	opt.SetLRScale(BuildLRScaleVector([]*ValueNetwork{net}, h.LayerLRScale))

	iters := h.PretrainIters(s)
	losses := make([]float64, 0, iters)
	grads := make([]float64, net.NumParams())
	for it := 0; it < iters; it++ {
		batch := a.gen.Batch(h.BatchSize, s)
		targets := engine.EvaluateBatch(batch, a.table)

		pred := net.EvaluateBatch(batch)
		loss, dOut := MSELoss(pred, targets)
		clear(grads)
		net.Grad(batch, dOut, grads)

		params := net.Params()
		opt.Step(params, grads)
		net.SetParams(params)

		losses = append(losses, loss)
		a.metrics.step(StagePretrain, s, loss)
		a.progress(StagePretrain, s, it, iters, loss)
	}

	if err := writeLossLog(a.cfg.LogsFolder, fmt.Sprintf("loss_%d", s), losses, a.cfg.Charts); err != nil {
		return err
	}
	if err := a.saveCheckpoint(StagePretrain, net); err != nil {
		return err
	}
	a.appendNetwork(net)
	return nil
}

// finetune trains every learned network jointly on the returns of greedy rollouts
// under the current table. One optimizer covers the concatenated parameters.
func (a *Agent) finetune() error {
	a.setPhase(Phase{Stage: FineTuning})
	h := a.cfg.Hyper
	n := a.cfg.Size
	nets := a.nets

	theta, restore := flatten(nets)
	opt, err := NewOptimizer(h.Optimizer, len(theta), h.FinetuneLR)
	if err != nil {
		return err
	}
	opt.SetLRScale(BuildLRScaleVector(nets, h.LayerLRScale))
	anc := newAnchor(theta, h.FinetuneAnchorL2)

	grads := make([]float64, len(theta))
	netGrads := gradSlices(nets, grads)
	losses := make([]float64, 0, h.NumFinetuneIters)
	for it := 0; it < h.NumFinetuneIters; it++ {
		// positions[s] and returns[s] hold every visited state of size s with its
		// remaining greedy total.
		positions := make([][]cube.State, n)
		returns := make([][]float64, n)
		for _, inst := range a.gen.Batch(h.FinetuneBatchSize, n-1) {
			tr := engine.Rollout(inst, a.table, true)
			ret := engine.TrailingSum(tr.Rewards)
			for i, p := range tr.Positions {
				positions[p.Size()] = append(positions[p.Size()], p)
				returns[p.Size()] = append(returns[p.Size()], ret[i])
			}
		}
		a.metrics.rollout(h.FinetuneBatchSize)

		var pred, target []float64
		for s := n - 1; s >= 1; s-- {
			pred = append(pred, a.table.At(s).EvaluateBatch(positions[s])...)
			target = append(target, returns[s]...)
		}
		loss, dOut := MSELoss(pred, target)

		clear(grads)
		off := 0
		for s := n - 1; s >= 1; s-- {
			cnt := len(positions[s])
			if s >= 2 {
				nets[s-2].Grad(positions[s], dOut[off:off+cnt], netGrads[s-2])
			}
			off += cnt
		}

		theta, _ = flatten(nets)
		loss = anc.apply(loss, theta, grads)
		opt.Step(theta, grads)
		restore(theta)

		losses = append(losses, loss)
		a.metrics.step(StageFinetune, n, loss)
		a.progress(StageFinetune, n, it, h.NumFinetuneIters, loss)
	}

	if err := writeLossLog(a.cfg.LogsFolder, "loss_finetune", losses, a.cfg.Charts); err != nil {
		return err
	}
	for _, v := range nets {
		if err := a.saveCheckpoint(StageFinetune, v); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) progress(stage string, size, it, iters int, loss float64) {
	every := a.cfg.LogEvery
	if every <= 0 || (it%every != 0 && it != iters-1) {
		return
	}
	a.log.Info("train progress", "stage", stage, "size", size, "iter", it+1, "iters", iters, "loss", loss)
}
