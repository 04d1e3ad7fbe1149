package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/server/auth"
	"github.com/FuturFusion/compute-manager/internal/server/request"
	"github.com/FuturFusion/compute-manager/internal/server/response"
	"github.com/FuturFusion/compute-manager/shared/api"
)

var serversCmd = APIEndpoint{
	Path: "servers",

	Get:  APIEndpointAction{Handler: serversGet, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanView)},
	Post: APIEndpointAction{Handler: serversPost, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanCreate)},
}

var serverCmd = APIEndpoint{
	Path: "servers/{uuid}",

	Delete: APIEndpointAction{Handler: serverDelete, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanDelete)},
	Get:    APIEndpointAction{Handler: serverGet, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanView)},
	Put:    APIEndpointAction{Handler: serverPut, AccessHandler: allowPermission(auth.ObjectTypeServer, auth.EntitlementCanEdit)},
}

// swagger:operation GET /1.0/servers servers servers_get
//
//	Get the servers
//
//	Returns a list of servers (URLs).
//
//	---
//	produces:
//	  - application/json
//	parameters:
//	  - in: query
//	    name: filter
//	    description: Expression to filter the servers with
//	    type: string
//	responses:
//	  "200":
//	    description: API servers
//	    schema:
//	      type: object
//	      description: Sync response
//	      properties:
//	        type:
//	          type: string
//	          description: Response type
//	          example: sync
//	        status:
//	          type: string
//	          description: Status description
//	          example: Success
//	        status_code:
//	          type: integer
//	          description: Status code
//	          example: 200
//	        metadata:
//	          type: array
//	          description: List of servers
//	          items:
//	            type: string
//	          example: |-
//	            [
//	              "/1.0/servers/26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad"
// 	            ]
//	  "400":
//	    $ref: "#/responses/BadRequest"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serversGet(d *Daemon, r *http.Request) response.Response {
	// Parse the recursion field.
	recursion, err := strconv.Atoi(r.FormValue("recursion"))
	if err != nil {
		recursion = 0
	}

	filter := request.QueryParam(r, "filter")

	servers, err := d.servers.GetAllWithFilter(r.Context(), filter)
	if err != nil {
		return response.SmartError(err)
	}

	if recursion > 0 {
		result := make([]api.Server, 0, len(servers))
		for _, srv := range servers {
			result = append(result, srv.ToAPI())
		}

		return response.SyncResponse(true, result)
	}

	result := make([]string, 0, len(servers))
	for _, srv := range servers {
		result = append(result, fmt.Sprintf("/%s/servers/%s", api.APIVersion, srv.UUID))
	}

	return response.SyncResponse(true, result)
}

// swagger:operation POST /1.0/servers servers servers_post
//
//	Add a server
//
//	Creates a new server record.
//
//	---
//	consumes:
//	  - application/json
//	produces:
//	  - application/json
//	parameters:
//	  - in: body
//	    name: server
//	    description: Server configuration
//	    required: true
//	    schema:
//	      $ref: "#/definitions/ServerPut"
//	responses:
//	  "200":
//	    $ref: "#/responses/EmptySyncResponse"
//	  "400":
//	    $ref: "#/responses/BadRequest"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serversPost(d *Daemon, r *http.Request) response.Response {
	var apiSrv api.ServerPut

	err := json.NewDecoder(r.Body).Decode(&apiSrv)
	if err != nil {
		return response.BadRequest(err)
	}

	srv, err := d.servers.Create(r.Context(), compute.Server{
		Name:           apiSrv.Name,
		FlavorID:       apiSrv.FlavorID,
		ImageID:        apiSrv.ImageID,
		SecurityGroups: apiSrv.SecurityGroups,
	})
	if err != nil {
		return response.SmartError(fmt.Errorf("Failed creating server %q: %w", apiSrv.Name, err))
	}

	return response.SyncResponseLocation(true, nil, "/"+api.APIVersion+"/servers/"+srv.UUID.String())
}

// swagger:operation GET /1.0/servers/{uuid} servers server_get
//
//	Get the server
//
//	Gets a specific server record.
//
//	---
//	produces:
//	  - application/json
//	responses:
//	  "200":
//	    description: Server
//	    schema:
//	      type: object
//	      description: Sync response
//	      properties:
//	        type:
//	          type: string
//	          description: Response type
//	          example: sync
//	        status:
//	          type: string
//	          description: Status description
//	          example: Success
//	        status_code:
//	          type: integer
//	          description: Status code
//	          example: 200
//	        metadata:
//	          $ref: "#/definitions/Server"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "404":
//	    $ref: "#/responses/NotFound"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serverGet(d *Daemon, r *http.Request) response.Response {
	serverUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse server UUID: %w", err))
	}

	srv, err := d.servers.GetByUUID(r.Context(), serverUUID)
	if err != nil {
		return response.SmartError(err)
	}

	return response.SyncResponseETag(true, srv.ToAPI(), srv.ToAPI())
}

// swagger:operation PUT /1.0/servers/{uuid} servers server_put
//
//	Update the server
//
//	Updates the mutable fields of a server record.
//
//	---
//	consumes:
//	  - application/json
//	produces:
//	  - application/json
//	parameters:
//	  - in: body
//	    name: server
//	    description: Server configuration
//	    required: true
//	    schema:
//	      $ref: "#/definitions/ServerPut"
//	responses:
//	  "200":
//	    $ref: "#/responses/EmptySyncResponse"
//	  "400":
//	    $ref: "#/responses/BadRequest"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "404":
//	    $ref: "#/responses/NotFound"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serverPut(d *Daemon, r *http.Request) response.Response {
	serverUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse server UUID: %w", err))
	}

	var apiSrv api.ServerPut

	err = json.NewDecoder(r.Body).Decode(&apiSrv)
	if err != nil {
		return response.BadRequest(err)
	}

	srv, err := d.servers.GetByUUID(r.Context(), serverUUID)
	if err != nil {
		return response.SmartError(err)
	}

	if apiSrv.Name != "" {
		srv.Name = apiSrv.Name
	}

	if apiSrv.SecurityGroups != nil {
		srv.SecurityGroups = apiSrv.SecurityGroups
	}

	_, err = d.servers.UpdateByUUID(r.Context(), srv)
	if err != nil {
		return response.SmartError(fmt.Errorf("Failed updating server %q: %w", serverUUID, err))
	}

	return response.EmptySyncResponse
}

// swagger:operation DELETE /1.0/servers/{uuid} servers server_delete
//
//	Delete the server
//
//	Removes the server record.
//
//	---
//	produces:
//	  - application/json
//	responses:
//	  "200":
//	    $ref: "#/responses/EmptySyncResponse"
//	  "403":
//	    $ref: "#/responses/Forbidden"
//	  "404":
//	    $ref: "#/responses/NotFound"
//	  "409":
//	    $ref: "#/responses/Conflict"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func serverDelete(d *Daemon, r *http.Request) response.Response {
	serverUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		return response.BadRequest(fmt.Errorf("Failed to parse server UUID: %w", err))
	}

	err = d.servers.DeleteByUUID(r.Context(), serverUUID)
	if err != nil {
		return response.SmartError(err)
	}

	return response.EmptySyncResponse
}
