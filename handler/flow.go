package handler

import (
	"net/http"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Home sends the browser to the active flow.
func Home(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusSeeOther, flowPath(state.Flow))
}

// SwitchFlow handles the flow selector. Changing flow resets both flows.
func SwitchFlow(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}

	flow, valid := model.ParseFlow(c.PostForm("flow"))
	if !valid {
		c.String(http.StatusBadRequest, "unknown analysis type")
		return
	}

	if state.SwitchFlow(flow) {
		logger.Info(c.Request.Context(), "flow switched",
			"flow", flow,
			"multi_doc_run_id", state.MultiDoc.Run.ID,
			"rent_roll_run_id", state.RentRoll.Run.ID,
		)
	}
	c.Redirect(http.StatusSeeOther, flowPath(state.Flow))
}
