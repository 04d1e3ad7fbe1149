package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/server/auth"
	"github.com/FuturFusion/compute-manager/internal/server/response"
	"github.com/FuturFusion/compute-manager/shared/api"
)

var serverActionCmd = APIEndpoint{
	Path: "servers/{uuid}/action",

	Post: APIEndpointAction{Handler: serverActionPost, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanEdit)},
}

// swagger:operation POST /1.0/servers/{uuid}/action servers server_action_post
//
//	Run an action on the server
//
//	Dispatches an instance action. The request body carries exactly one
//	top-level key naming the action, with the action parameters as its
//	value.
//
//	---
//	consumes:
//	  - application/json
//	produces:
//	  - application/json
//	parameters:
//	  - in: body
//	    name: action
//	    description: Action envelope
//	    required: true
//	    schema:
//	      type: object
//	      example: {"reboot": {"type": "SOFT"}}
//	responses:
//	  "200":
//	    description: Action result
//	  "202":
//	    description: Action accepted
//	  "204":
//	    description: Action applied
//	  "400":
//	    $ref: "#/responses/BadRequest"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "404":
//	    $ref: "#/responses/NotFound"
//	  "409":
//	    $ref: "#/responses/Conflict"
//	  "501":
//	    description: Action no longer supported
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serverActionPost(d *Daemon, r *http.Request) response.Response {
	serverUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse server UUID: %w", err))
	}

	var envelope map[string]json.RawMessage

	err = json.NewDecoder(r.Body).Decode(&envelope)
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse action request body: %w", err))
	}

	if len(envelope) != 1 {
		return response.BadRequest(fmt.Errorf("Action request body must contain exactly one action, got %d", len(envelope)))
	}

	var action string
	var params json.RawMessage
	for name, raw := range envelope {
		action = name
		params = raw
	}

	outcome, err := d.dispatcher.Dispatch(r.Context(), serverUUID, action, params, d.callerForRequest(r))
	if err != nil {
		return response.SmartError(err)
	}

	if outcome.AdminPass != "" {
		return response.ActionResult(api.ServerActionRescueResponse{AdminPass: outcome.AdminPass})
	}

	if outcome.Kind == compute.ActionAsync {
		return response.Accepted()
	}

	return response.NoContent()
}
