// Package pkg provides the core libraries for Schedulator critical path scheduling.
//
// # Overview
//
// Schedulator takes a set of tasks, each with a duration and the tasks it
// must wait for, and computes when every task can start, how long it may
// slip, and which chain of tasks fixes the project duration. The pkg
// directory is organized into these areas:
//
//  1. [dag] - Validated task graph built from input records
//  2. [dag/topo] - Kahn ordering with deterministic ties and ranks
//  3. [cpm] - Forward and backward passes, slack, critical paths
//  4. [io] - Task file readers and schedule writers
//  5. [render] - Graphviz diagrams of the scheduled graph
//  6. [pipeline] - Orchestration (read → analyze → render)
//  7. [cache] - Artifact caching on disk or in Redis
//
// # Architecture
//
// The typical data flow:
//
//	Task file (text, TOML, JSON, YAML)
//	         ↓
//	    io.Read → []dag.Record
//	         ↓
//	    dag.Build → *dag.Graph
//	         ↓
//	    topo.Sort → *topo.Order
//	         ↓
//	    cpm.Analyze → *cpm.Schedule
//	         ↓
//	    io.WriteJSON / nodelink.ToDOT
//
// # Quick Start
//
//	records, _ := io.ReadFile("plan.txt")
//	g, _ := dag.Build(records)
//	s, _ := cpm.AnalyzeGraph(g)
//	fmt.Println(s.Duration, s.CriticalPath)
package pkg
