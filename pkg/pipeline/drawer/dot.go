package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-transposer/pkg/pipeline/measure"
)

// DOTDrawer writes the pipeline graph as a DOT file.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw writes the graph to the drawer file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}
	defer file.Close()

	err = d.WriteTo(file)
	if err != nil {
		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return nil
}

// WriteTo renders the graph to wrt.
func (d *DOTDrawer) WriteTo(wrt io.Writer) error {
	desc, err := generateDOT(d.graph)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// SetTotalTime sets the total time for the step.
func (d *DOTDrawer) SetTotalTime(stepName string, startTime time.Time) error {
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", stepName)
	}

	properties.Attributes["xlabel"] = round(time.Since(startTime)).String()

	return nil
}

const maxRGB = 240

// AddMeasure colours links from blue (fastest) to red (slowest) and labels
// steps with their average duration.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	colours := make(map[time.Duration]string)
	sorted := []time.Duration{}

	for _, step := range msr.AllMetrics() {
		for _, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			if _, ok := colours[info.Elapsed]; ok {
				continue
			}

			colours[info.Elapsed] = ""
			sorted = append(sorted, info.Elapsed)
		}
	}

	if len(sorted) > 0 {
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] > sorted[j]
		})

		maxValue := sorted[0]
		minValue := sorted[len(sorted)-1]

		for curr := range colours {
			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(curr-minValue) / float64(maxValue-minValue)
			}

			red := maxRGB * fraction
			blue := maxRGB - red

			colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			colours[curr] = colour.ToHEX().String()
		}
	}

	err := d.updateMetrics(msr, colours)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, colours map[time.Duration]string) error {
	for name, step := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get %s vertex properties", name)
		}

		stepAvg := step.AVGDuration()
		if stepAvg != 0 {
			properties.Attributes["xlabel"] = stepAvg.String()
		}

		for inputStep, info := range step.AVGTransportDuration() {
			if info.Elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(inputStep, name,
				graph.EdgeAttribute("label", info.Elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", colours[info.Elapsed]),
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge %s -> %s", inputStep, name)
			}
		}
	}

	return nil
}

func round(d time.Duration) time.Duration {
	if d > time.Millisecond {
		return d.Round(time.Millisecond)
	}

	return d.Round(time.Microsecond)
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func generateDOT(gra graph.Graph[string, string]) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}
	sort.Strings(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)
		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))

		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)

				continue
			}
			sourceAttributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}
		sort.Strings(targets)

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
