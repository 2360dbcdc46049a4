// Package testutil provides shared fixtures for package tests
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QTest-hq/qskel/pkg/model"
)

// EnvKeys lists the environment variables read by config.Load
var EnvKeys = []string{"QSKEL_LOG_LEVEL", "QSKEL_WORKERS", "QSKEL_PORT", "QSKEL_ENV"}

// ClearEnv unsets the qskel environment for the duration of the test
func ClearEnv(t *testing.T) {
	t.Helper()
	for _, key := range EnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// WriteFile writes content to path, creating parent directories, and
// returns path
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// BoxModel declares Box with a default constructor and a mutable text
// property Label
func BoxModel() *model.DeclarationModel {
	return &model.DeclarationModel{
		Namespace: "Shop",
		Entities: []model.Entity{{
			Name:      "Box",
			Namespace: "Shop",
			Members: []model.Member{
				model.Constructor(),
				model.Property("Label", "string", true),
			},
		}},
	}
}

// MapperModel declares OrderMapper.ToSummary(Order) returning OrderSummary;
// Id is the only property both types declare
func MapperModel() *model.DeclarationModel {
	return &model.DeclarationModel{
		Namespace: "Shop",
		Entities: []model.Entity{
			{Name: "Order", Members: []model.Member{
				model.Property("Id", "int", true),
				model.Property("Customer", "string", true),
			}},
			{Name: "OrderSummary", Members: []model.Member{
				model.Property("Id", "int", true),
			}},
			{Name: "OrderMapper", Members: []model.Member{
				model.Method("ToSummary", "OrderSummary", model.Param("o", "Order")),
			}},
		},
	}
}

// ClientModel declares LoggingClient wrapping an IClient and forwarding
// Fetch(int) string
func ClientModel() *model.DeclarationModel {
	return &model.DeclarationModel{
		Namespace: "Net",
		Entities: []model.Entity{{
			Name: "LoggingClient",
			Members: []model.Member{
				model.Constructor(model.Param("inner", "IClient")),
				model.Method("Fetch", "string", model.Param("id", "int")),
			},
		}},
	}
}

// NodeModel declares the self-referential aggregate Node{Next, Name}
func NodeModel() *model.DeclarationModel {
	return &model.DeclarationModel{
		Namespace: "Graph",
		Entities: []model.Entity{{
			Name: "Node",
			Members: []model.Member{
				model.Constructor(),
				model.Property("Next", "Node", true),
				model.Property("Name", "string", true),
			},
		}},
	}
}

// ServiceModel declares OrderService, built from two capabilities, with a
// collection property and sync, async and collection-mapping methods
func ServiceModel() *model.DeclarationModel {
	return &model.DeclarationModel{
		Namespace: "Shop",
		Entities: []model.Entity{
			{Name: "Order", Members: []model.Member{
				model.Property("Id", "int", true),
				model.Property("Lines", "List<string>", true),
			}},
			{Name: "OrderSummary", Members: []model.Member{
				model.Property("Id", "int", true),
				model.Property("Lines", "List<string>", true),
			}},
			{Name: "OrderService", Members: []model.Member{
				model.Constructor(model.Param("log", "ILogger"), model.Param("store", "IOrderStore")),
				model.Property("Tags", "List<string>", true),
				model.Method("ToSummaryAsync", "Task<OrderSummary>", model.Param("o", "Order")),
				model.Method("SummarizeAll", "List<OrderSummary>", model.Param("orders", "List<Order>")),
				model.Method("SaveAsync", "Task", model.Param("o", "Order")),
				model.Method("ValidateOrder", "bool", model.Param("o", "Order")),
			}},
		},
	}
}

// usingFor maps constructs in generated C# to the namespace declaring them
var usingFor = []struct {
	construct string
	namespace string
}{
	{"new Mock<", "Moq"},
	{"Mock.Of<", "Moq"},
	{"It.IsAny<", "Moq"},
	{"Times.", "Moq"},
	{"async Task", "System.Threading.Tasks"},
	{"List<", "System.Collections.Generic"},
	{"IEnumerable<", "System.Collections.Generic"},
	{".Count()", "System.Linq"},
	{"Exception", "System"},
	{"DateTime.", "System"},
	{"[Fact]", "Xunit"},
}

// MissingUsings returns "construct -> namespace" for each construct in code
// whose namespace the file does not import
func MissingUsings(code string) []string {
	var missing []string
	for _, u := range usingFor {
		if strings.Contains(code, u.construct) && !strings.Contains(code, "using "+u.namespace+";\n") {
			missing = append(missing, u.construct+" -> "+u.namespace)
		}
	}
	return missing
}

// BoxSource is the C# declaration of BoxModel
const BoxSource = `namespace Shop
{
    public class Box
    {
        public Box() { }
        public string Label { get; set; }
    }
}
`

// ClientModelYAML is ClientModel as a YAML declaration model
const ClientModelYAML = `namespace: Net
entities:
  - name: LoggingClient
    members:
      - kind: constructor
        parameters:
          - name: inner
            type: IClient
      - kind: method
        name: Fetch
        return_type: string
        parameters:
          - name: id
            type: int
`
