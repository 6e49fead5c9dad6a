package bnet

// OutputSplit extracts, from src, the single-output sub-network that
// computes primary output outputIndex: a fresh network holding those
// input ports of src that have at least one bit in the output's fanin
// cone (as plain inputs; such a port carries all of its bits) and one
// output port driven by a clone of that cone.
//
// Grounded on OutputSplit.cc's get_support_sub: a DFS over the fanin
// cone collecting the reachable input-side nodes, followed by cloning
// just that cone via the same subnetwork-import machinery Clone uses.
func OutputSplit(src *Network, outputIndex int) (*Network, error) {
	primaryOutputs := src.PrimaryOutputs()
	if outputIndex < 0 || outputIndex >= len(primaryOutputs) {
		return nil, newError(KindDomainError, "output_split: index %d out of range (network has %d primary outputs)", outputIndex, len(primaryOutputs))
	}
	outID := primaryOutputs[outputIndex]
	srcs, err := src.PrimaryOutputSrcList()
	if err != nil {
		return nil, err
	}
	rootSrc := srcs[outputIndex]

	dst := NewNetwork(src.Name())
	dst.SetCellLibrary(src.CellLibrary())
	dmod := NewModifier(dst)
	inputMap := make(map[NodeId]NodeId)

	cone := map[NodeId]bool{}
	var mark func(NodeId)
	mark = func(id NodeId) {
		if id == NullID || cone[id] {
			return
		}
		cone[id] = true
		if nd, ok := src.Node(id); ok {
			for _, f := range nd.Fanins() {
				mark(f)
			}
		}
	}
	mark(rootSrc)

	for _, p := range src.Ports() {
		dirs := make([]Direction, p.Width())
		allInput, inCone := true, false
		for i := 0; i < p.Width(); i++ {
			if p.Dir(i) != DirInput {
				allInput = false
			}
			inCone = inCone || cone[p.Bit(i)]
			dirs[i] = DirInput
		}
		if !allInput || !inCone {
			continue // only input ports in the cone carry over; the single output port is added below
		}
		np, err := dmod.NewPort(p.Name(), dirs)
		if err != nil {
			return nil, err
		}
		for i := 0; i < p.Width(); i++ {
			inputMap[p.Bit(i)] = np.Bit(i)
		}
	}
	// DFF data-outputs and cell outputs are pseudo-inputs to the
	// combinational cone; map each one seen in the cone to a fresh
	// input port bit of the same name so the extracted sub-network
	// stays purely combinational and self-contained.
	seen := map[NodeId]bool{}
	var walk func(NodeId)
	walk = func(id NodeId) {
		if id == NullID || seen[id] {
			return
		}
		seen[id] = true
		nd, ok := src.Node(id)
		if !ok {
			return
		}
		if nd.Kind().IsInputSide() {
			if _, already := inputMap[id]; !already {
				np, err := dmod.NewPort(nd.Name(), []Direction{DirInput})
				if err == nil {
					inputMap[id] = np.Bit(0)
				}
			}
			return
		}
		for _, f := range nd.Fanins() {
			walk(f)
		}
	}
	walk(rootSrc)

	outPort, err := dmod.NewPort(src.Port(portOf(src, outID)).Name(), []Direction{DirOutput})
	if err != nil {
		return nil, err
	}

	imp := NewSubnetImporter(dst, inputMap)
	clonedSrc, err := imp.ImportSubnetwork(src, []NodeId{rootSrc})
	if err != nil {
		return nil, err
	}
	if err := dmod.SetOutputSrc(outPort.Bit(0), clonedSrc[0]); err != nil {
		return nil, err
	}
	return dst, nil
}

// portOf returns the PortId of the PortOutputNode id; used only for its
// name when relabeling the extracted network's single output port.
func portOf(n *Network, id NodeId) PortId {
	nd, _ := n.Node(id)
	if po, ok := nd.(*PortOutputNode); ok {
		return po.Port
	}
	return NullPortID
}
