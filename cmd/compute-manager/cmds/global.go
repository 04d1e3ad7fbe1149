package cmds

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/user"
	"path"
	"slices"
	"strings"

	"github.com/lxc/incus/v6/shared/util"
	"github.com/spf13/cobra"

	"github.com/FuturFusion/compute-manager/cmd/compute-manager/config"
	internalUtil "github.com/FuturFusion/compute-manager/internal/util"
	"github.com/FuturFusion/compute-manager/shared/api"
)

//go:generate go run github.com/matryer/moq -fmt goimports -out asker_mock_gen_test.go -rm . Asker

type Asker interface {
	AskBool(question string, defaultAnswer string) (bool, error)
	AskChoice(question string, choices []string, defaultAnswer string) (string, error)
	AskInt(question string, minValue int64, maxValue int64, defaultAnswer string, validate func(int64) error) (int64, error)
	AskString(question string, defaultAnswer string, validate func(string) error) (string, error)
}

type CmdGlobal struct {
	Asker Asker

	config *config.Config
	Cmd    *cobra.Command

	FlagHelp    bool
	FlagVersion bool
}

func (c *CmdGlobal) PreRun(cmd *cobra.Command, args []string) error {
	var err error

	// If calling the help, skip pre-run
	if cmd.Name() == "help" {
		return nil
	}

	// Figure out the config directory and config path
	var configDir string
	if os.Getenv("COMPUTE_MANAGER_CONF") != "" {
		configDir = os.Getenv("COMPUTE_MANAGER_CONF")
	} else if os.Getenv("HOME") != "" && util.PathExists(os.Getenv("HOME")) {
		configDir = path.Join(os.Getenv("HOME"), ".config", "compute-manager")
	} else {
		currentUser, err := user.Current()
		if err != nil {
			return err
		}

		if util.PathExists(currentUser.HomeDir) {
			configDir = path.Join(currentUser.HomeDir, ".config", "compute-manager")
		}
	}

	configDir = os.ExpandEnv(configDir)
	configFile := path.Join(configDir, "config.yml")
	if !util.PathExists(configDir) {
		// Create the config dir if it doesn't exist
		err = os.MkdirAll(configDir, 0o750)
		if err != nil {
			return err
		}
	}

	// Load the configuration
	if util.PathExists(configFile) {
		c.config, err = config.LoadConfig(configFile)
		if err != nil {
			return err
		}

		c.config.ConfigDir = configDir
	} else {
		c.config = config.NewConfig(configDir)
	}

	return c.CheckConfigStatus()
}

func (c *CmdGlobal) CheckConfigStatus() error {
	if c.config.ComputeManagerServer != "" {
		return nil
	}

	c.Cmd.Printf("No config found, performing first-time configuration...\n")

	server, err := c.Asker.AskString("Please enter the compute manager server URL: ", "", nil)
	if err != nil {
		return err
	}

	c.config.ComputeManagerServer = server

	insecure, err := c.Asker.AskBool("Allow insecure TLS connections to compute manager? ", "false")
	if err != nil {
		return err
	}

	c.config.AllowInsecureTLS = insecure

	return c.config.SaveConfig()
}

func (c *CmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, fmt.Errorf("Invalid number of arguments")
	}

	return false, nil
}

func (c *CmdGlobal) httpClient() (*http.Client, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: c.config.AllowInsecureTLS}

	// The daemon trusts clients by certificate fingerprint.
	if c.config.TLSClientCertFile != "" && c.config.TLSClientKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(c.config.TLSClientCertFile, c.config.TLSClientKeyFile)
		if err != nil {
			return nil, err
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}}, nil
}

func (c *CmdGlobal) doHTTPRequestV1(endpoint string, method string, query string, content []byte) (*api.ResponseRaw, error) {
	u, err := url.Parse(c.config.ComputeManagerServer)
	if err != nil {
		return nil, err
	}

	u.Path, err = url.JoinPath("/1.0/", endpoint)
	if err != nil {
		return nil, err
	}

	u.RawQuery = query

	req, err := http.NewRequest(method, u.String(), bytes.NewBuffer(content))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	client, err := c.httpClient()
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var jsonResp api.ResponseRaw
	err = json.Unmarshal(bodyBytes, &jsonResp)
	if err != nil {
		return nil, err
	} else if jsonResp.Code != 0 {
		return &jsonResp, fmt.Errorf("Received an error from the server: %s", jsonResp.Error)
	}

	return &jsonResp, nil
}

// doServerActionV1 posts a single-action envelope to the action endpoint.
// Action responses fall outside the usual envelope: 202 and 204 carry no
// body and 200 carries the raw action result.
func (c *CmdGlobal) doServerActionV1(serverUUID string, action string, params any) ([]byte, error) {
	content, err := json.Marshal(map[string]any{action: params})
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.config.ComputeManagerServer)
	if err != nil {
		return nil, err
	}

	u.Path, err = url.JoinPath("/1.0/servers/", serverUUID, "action")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewBuffer(content))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	client, err := c.httpClient()
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return bodyBytes, nil
	}

	var jsonResp api.ResponseRaw
	err = json.Unmarshal(bodyBytes, &jsonResp)
	if err != nil {
		return nil, fmt.Errorf("Received an unexpected response from the server: %s", resp.Status)
	}

	return nil, fmt.Errorf("Received an error from the server: %s", jsonResp.Error)
}

func responseToStruct(response *api.ResponseRaw, targetStruct any) error {
	content, err := json.Marshal(response.Metadata)
	if err != nil {
		return err
	}

	return json.Unmarshal(content, targetStruct)
}

func validateFlagFormat(format string) error {
	fields := strings.SplitN(format, ",", 2)

	validFormats := []string{
		internalUtil.TableFormatCSV,
		internalUtil.TableFormatJSON,
		internalUtil.TableFormatTable,
		internalUtil.TableFormatYAML,
		internalUtil.TableFormatCompact,
	}

	if !slices.Contains(validFormats, fields[0]) {
		return fmt.Errorf("Invalid format %q", format)
	}

	if len(fields) == 2 && fields[1] != "noheader" && fields[1] != "header" {
		return fmt.Errorf("Invalid format modifier %q", fields[1])
	}

	return nil
}
