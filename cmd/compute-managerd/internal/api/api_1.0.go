package api

import (
	"net/http"

	"github.com/FuturFusion/compute-manager/internal/server/request"
	"github.com/FuturFusion/compute-manager/internal/server/response"
	"github.com/FuturFusion/compute-manager/internal/version"
	"github.com/FuturFusion/compute-manager/shared/api"
)

var api10Cmd = APIEndpoint{
	Get: APIEndpointAction{Handler: api10Get, AllowUntrusted: true},
}

var api10 = []APIEndpoint{
	api10Cmd,
	migrationCmd,
	migrationsCmd,
	serverActionCmd,
	serverCmd,
	serversCmd,
}

// swagger:operation GET /1.0 server server_get_untrusted
//
//	Get the server environment
//
//	Shows a small subset of the server environment and configuration
//	which is required by untrusted clients to reach a server.
//
//	---
//	produces:
//	  - application/json
//	responses:
//	  "200":
//	    description: Server environment and configuration
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
//	          $ref: "#/definitions/ServerUntrusted"
//	  "500":
//	    $ref: "#/responses/InternalServerError"
func api10Get(d *Daemon, r *http.Request) response.Response {
	untrusted := api.ServerUntrusted{
		APIVersion: api.APIVersion,
		Auth:       "untrusted",
	}

	protocol := request.Protocol(r)
	if protocol == "" {
		return response.SyncResponseETag(true, untrusted, nil)
	}

	untrusted.Auth = protocol

	backend := "null"

	d.configLock.Lock()
	if d.config.Backend.Endpoint != "" {
		backend = "incus"
	}

	d.configLock.Unlock()

	status := api.SystemStatus{
		ServerUntrusted: untrusted,
		Environment: api.ServerEnvironment{
			ServerVersion: version.Version,
			Backend:       backend,
		},
	}

	return response.SyncResponseETag(true, status, nil)
}
