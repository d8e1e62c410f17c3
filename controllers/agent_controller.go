package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/pfplabs/croaker/agent"
	"github.com/pfplabs/croaker/utils"
)

// AgentController exposes scheduler state and operator controls.
type AgentController struct {
	agent *agent.Agent
}

// NewAgentController wires the orchestrator into the ops API.
func NewAgentController(a *agent.Agent) *AgentController {
	return &AgentController{agent: a}
}

// Status returns the scheduler snapshot: state, rate windows, next run and
// whether the gate is currently open.
func (c *AgentController) Status(ctx *gin.Context) {
	utils.Success(ctx, c.agent.Scheduler().Snapshot())
}

// Pause stops posting at the next cycle boundary.
func (c *AgentController) Pause(ctx *gin.Context) {
	c.agent.Scheduler().Pause()
	utils.Sugar.Infow("agent paused by operator", "ip", ctx.ClientIP())
	utils.Success(ctx, gin.H{"paused": true})
}

// Resume re-enables posting.
func (c *AgentController) Resume(ctx *gin.Context) {
	c.agent.Scheduler().Resume()
	utils.Sugar.Infow("agent resumed by operator", "ip", ctx.ClientIP())
	utils.Success(ctx, gin.H{"paused": false})
}

// Trigger requests an immediate cycle. The cycle still passes through the
// rate gate like any scheduled one.
func (c *AgentController) Trigger(ctx *gin.Context) {
	c.agent.Scheduler().Trigger()
	utils.Sugar.Infow("cycle trigger requested by operator", "ip", ctx.ClientIP())
	utils.Success(ctx, gin.H{"triggered": true})
}
