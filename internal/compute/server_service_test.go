package compute_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/FuturFusion/compute-manager/internal/compute"
	"github.com/FuturFusion/compute-manager/internal/compute/repo/mock"
	"github.com/FuturFusion/compute-manager/shared/api"
)

func TestServerServiceCreate(t *testing.T) {
	tests := []struct {
		name string

		server            compute.Server
		repoCreateErr     error
		randomUUIDErr     error
		wantStatus        api.ServerStatusType
		wantRepoCreateCnt int

		assertErr require.ErrorAssertionFunc
	}{
		{
			name: "success",

			server: compute.Server{
				Name:           "web01",
				FlavorID:       "m1.small",
				ImageID:        "ubuntu-24.04",
				SecurityGroups: []string{"default"},
			},
			wantStatus:        api.SERVERSTATUS_ACTIVE,
			wantRepoCreateCnt: 1,

			assertErr: require.NoError,
		},
		{
			name: "success - status preserved",

			server: compute.Server{
				Name:     "web01",
				Status:   api.SERVERSTATUS_SHUTOFF,
				VMState:  api.VMSTATE_STOPPED,
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},
			wantStatus:        api.SERVERSTATUS_SHUTOFF,
			wantRepoCreateCnt: 1,

			assertErr: require.NoError,
		},
		{
			name: "error - name missing",

			server: compute.Server{
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "error - flavor missing",

			server: compute.Server{
				Name:    "web01",
				ImageID: "ubuntu-24.04",
			},

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "error - repo",

			server: compute.Server{
				Name:     "web01",
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},
			repoCreateErr:     boom,
			wantRepoCreateCnt: 1,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, boom)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.ServerRepoMock{
				CreateFunc: func(ctx context.Context, server compute.Server) (compute.Server, error) {
					return server, tc.repoCreateErr
				},
			}

			serverSvc := compute.NewServerService(repo,
				compute.WithNow(func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }),
			)

			server, err := serverSvc.Create(context.Background(), tc.server)

			tc.assertErr(t, err)
			require.Len(t, repo.CreateCalls(), tc.wantRepoCreateCnt)

			if err != nil {
				return
			}

			require.NotEqual(t, uuid.Nil, server.UUID)
			require.Equal(t, tc.wantStatus, server.Status)
			require.Equal(t, time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC), server.CreatedAt)
			require.Equal(t, server.CreatedAt, server.UpdatedAt)
		})
	}
}

func TestServerServiceGetAllWithFilter(t *testing.T) {
	servers := compute.Servers{
		{
			UUID:           uuid.MustParse("26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad"),
			Name:           "web01",
			Status:         api.SERVERSTATUS_ACTIVE,
			FlavorID:       "m1.small",
			ImageID:        "ubuntu-24.04",
			SecurityGroups: []string{"default", "web"},
		},
		{
			UUID:     uuid.MustParse("2b8839e3-6e07-4da4-8422-1b9c23bc425c"),
			Name:     "db01",
			Status:   api.SERVERSTATUS_SHUTOFF,
			Locked:   true,
			FlavorID: "m1.large",
			ImageID:  "debian-13",
		},
	}

	tests := []struct {
		name string

		filter string

		wantNames []string
		assertErr require.ErrorAssertionFunc
	}{
		{
			name: "no filter returns everything",

			wantNames: []string{"web01", "db01"},
			assertErr: require.NoError,
		},
		{
			name: "filter by name",

			filter: `Name matches "^web"`,

			wantNames: []string{"web01"},
			assertErr: require.NoError,
		},
		{
			name: "filter by lock state",

			filter: `Locked`,

			wantNames: []string{"db01"},
			assertErr: require.NoError,
		},
		{
			name: "filter by security group",

			filter: `has_security_group(SecurityGroups, "web")`,

			wantNames: []string{"web01"},
			assertErr: require.NoError,
		},
		{
			name: "error - invalid expression",

			filter: `Name ==`,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "error - not boolean",

			filter: `Name`,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.ServerRepoMock{
				GetAllFunc: func(ctx context.Context) (compute.Servers, error) {
					return servers, nil
				},
			}

			serverSvc := compute.NewServerService(repo)

			filtered, err := serverSvc.GetAllWithFilter(context.Background(), tc.filter)

			tc.assertErr(t, err)
			if err != nil {
				return
			}

			names := make([]string, 0, len(filtered))
			for _, server := range filtered {
				names = append(names, server.Name)
			}

			require.Equal(t, tc.wantNames, names)
		})
	}
}

func TestServerServiceUpdateByUUID(t *testing.T) {
	serverUUID := uuid.MustParse("26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad")

	tests := []struct {
		name string

		server        compute.Server
		repoUpdateErr error

		assertErr require.ErrorAssertionFunc
	}{
		{
			name: "success",

			server: compute.Server{
				UUID:     serverUUID,
				Name:     "web01",
				Status:   api.SERVERSTATUS_ACTIVE,
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},

			assertErr: require.NoError,
		},
		{
			name: "error - invalid status",

			server: compute.Server{
				UUID:     serverUUID,
				Name:     "web01",
				Status:   "SLEEPING",
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},

			assertErr: func(tt require.TestingT, err error, a ...any) {
				var validationErr compute.ErrValidation
				require.ErrorAs(tt, err, &validationErr)
			},
		},
		{
			name: "error - repo",

			server: compute.Server{
				UUID:     serverUUID,
				Name:     "web01",
				Status:   api.SERVERSTATUS_ACTIVE,
				FlavorID: "m1.small",
				ImageID:  "ubuntu-24.04",
			},
			repoUpdateErr: boom,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, boom)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.ServerRepoMock{
				UpdateByUUIDFunc: func(ctx context.Context, server compute.Server) (compute.Server, error) {
					return server, tc.repoUpdateErr
				},
			}

			serverSvc := compute.NewServerService(repo)

			_, err := serverSvc.UpdateByUUID(context.Background(), tc.server)

			tc.assertErr(t, err)
		})
	}
}

func TestServerServiceDeleteByUUID(t *testing.T) {
	serverUUID := uuid.MustParse("26fa4eb7-8d4f-4bf8-9a6a-dd95d166dfad")

	tests := []struct {
		name string

		server        compute.Server
		repoGetErr    error
		repoDeleteErr error

		wantDeleteCnt int
		assertErr     require.ErrorAssertionFunc
	}{
		{
			name: "success",

			server: compute.Server{
				UUID:   serverUUID,
				Name:   "web01",
				Status: api.SERVERSTATUS_ACTIVE,
			},

			wantDeleteCnt: 1,
			assertErr:     require.NoError,
		},
		{
			name: "error - busy",

			server: compute.Server{
				UUID:      serverUUID,
				Name:      "web01",
				Status:    api.SERVERSTATUS_REBOOT,
				TaskState: api.TASKSTATE_REBOOTING,
			},

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrStateConflict)
			},
		},
		{
			name: "error - not found",

			repoGetErr: compute.ErrNotFound,

			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, compute.ErrNotFound)
			},
		},
		{
			name: "error - repo delete",

			server: compute.Server{
				UUID:   serverUUID,
				Name:   "web01",
				Status: api.SERVERSTATUS_ACTIVE,
			},
			repoDeleteErr: boom,

			wantDeleteCnt: 1,
			assertErr: func(tt require.TestingT, err error, a ...any) {
				require.ErrorIs(tt, err, boom)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mock.ServerRepoMock{
				GetByUUIDFunc: func(ctx context.Context, id uuid.UUID) (compute.Server, error) {
					return tc.server, tc.repoGetErr
				},
				DeleteByUUIDFunc: func(ctx context.Context, id uuid.UUID) error {
					return tc.repoDeleteErr
				},
			}

			serverSvc := compute.NewServerService(repo)

			err := serverSvc.DeleteByUUID(context.Background(), serverUUID)

			tc.assertErr(t, err)
			require.Len(t, repo.DeleteByUUIDCalls(), tc.wantDeleteCnt)
		})
	}
}
