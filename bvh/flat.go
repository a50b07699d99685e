package bvh

// FlatNode is the ABI-fixed 32-byte layout shared between the CPU
// iterative traversal and the GPU compute shader's SSBO BVH block:
//
//	aabb_min[3] f32, right_or_obj_idx i32, aabb_max[3] f32, left_idx i32
//
// A leaf is encoded as left_idx == -1 and right_or_obj_idx == -(idx+1);
// an internal node has left_idx and right_or_obj_idx both >= 0, pointing
// at sibling entries in the same flat array.
type FlatNode struct {
	AABBMin       [3]float32
	RightOrObjIdx int32
	AABBMax       [3]float32
	LeftIdx       int32
}

func (n FlatNode) IsLeaf() bool {
	return n.LeftIdx == -1
}

func (n FlatNode) PrimitiveIndex() int {
	return int(-(n.RightOrObjIdx + 1))
}

// Flatten serializes the pointer-tree BVH into a depth-first preorder
// array. Node 0 is always the root; an empty tree yields an empty slice.
func Flatten(root *Node) []FlatNode {
	if root == nil {
		return nil
	}
	nodes := make([]FlatNode, 0, estimateSize(root))
	flattenInto(&nodes, root)
	return nodes
}

func estimateSize(root *Node) int {
	return countNodes(root)
}

func countNodes(n *Node) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf {
		return 1
	}
	return 1 + countNodes(n.Left) + countNodes(n.Right)
}

// flattenInto reserves this node's slot first, then recurses left and
// right, then backpatches left_idx/right_or_obj_idx once the children's
// positions in the array are known.
func flattenInto(nodes *[]FlatNode, node *Node) int {
	idx := len(*nodes)
	*nodes = append(*nodes, FlatNode{
		AABBMin: [3]float32{node.Box.X.Min, node.Box.Y.Min, node.Box.Z.Min},
		AABBMax: [3]float32{node.Box.X.Max, node.Box.Y.Max, node.Box.Z.Max},
	})

	if node.IsLeaf {
		(*nodes)[idx].LeftIdx = -1
		(*nodes)[idx].RightOrObjIdx = -(int32(node.ObjIndex) + 1)
		return idx
	}

	leftIdx := flattenInto(nodes, node.Left)
	rightIdx := flattenInto(nodes, node.Right)

	(*nodes)[idx].LeftIdx = int32(leftIdx)
	(*nodes)[idx].RightOrObjIdx = int32(rightIdx)

	return idx
}
