package render

import (
	"fmt"

	"github.com/go-ini/ini"
)

// SchedulerFile is the name of the global scheduler configuration.
const SchedulerFile = "airflow.cfg"

// Airflow's stock ports, used when the operator leaves a prompt empty.
const (
	DefaultWebServerPort = "8080"
	DefaultLogServerPort = "8793"
)

// SchedulerParams carries the operator-entered ports. The values are embedded
// as entered.
type SchedulerParams struct {
	WebServerPort string
	LogServerPort string
}

type entry struct{ key, value string }

type section struct {
	name    string
	entries []entry
}

func schedulerSections(sp SchedulerParams) []section {
	return []section{
		{"core", []entry{
			{"load_examples", "False"},
		}},
		{"database", []entry{
			{"load_default_connections", "False"},
		}},
		{"logging", []entry{
			{"worker_log_server_port", sp.LogServerPort},
			{"file_task_handler_new_folder_permissions", "0o775"},
			{"file_task_handler_new_file_permissions", "0o664"},
		}},
		{"webserver", []entry{
			{"web_server_port", sp.WebServerPort},
			{"expose_config", "True"},
		}},
		{"api", []entry{
			{"enable_swagger_ui", "True"},
		}},
		{"scheduler", []entry{
			{"parsing_processes", "1"},
		}},
	}
}

// SchedulerConfig builds the scheduler configuration as an INI document.
func SchedulerConfig(sp SchedulerParams) (*ini.File, error) {
	f := ini.Empty()
	for i, sec := range schedulerSections(sp) {
		s, err := f.NewSection(sec.name)
		if err != nil {
			return nil, fmt.Errorf("adding section %s: %w", sec.name, err)
		}
		if i == 0 {
			s.Comment = "# Written once by forg. Later runs never touch this file."
		}
		for _, e := range sec.entries {
			if _, err := s.NewKey(e.key, e.value); err != nil {
				return nil, fmt.Errorf("adding %s.%s: %w", sec.name, e.key, err)
			}
		}
	}
	return f, nil
}
