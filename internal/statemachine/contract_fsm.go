package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/ywpark/brickpay-api/internal/models"
)

// ContractFSM wraps a contract with its state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// pending → active
			{Name: "activate", Src: []string{models.ContractStatusPending}, Dst: models.ContractStatusActive},

			// pending/active → terminated
			{Name: "terminate", Src: []string{models.ContractStatusPending, models.ContractStatusActive}, Dst: models.ContractStatusTerminated},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Activate transitions contract to active state
func (c *ContractFSM) Activate(ctx context.Context) error {
	if !c.contract.MayActivate() {
		return fmt.Errorf("contract cannot be activated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Terminate transitions contract to terminated state
func (c *ContractFSM) Terminate(ctx context.Context) error {
	if !c.contract.MayTerminate() {
		return fmt.Errorf("contract cannot be terminated in current state: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "terminate"); err != nil {
		return fmt.Errorf("failed to terminate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
