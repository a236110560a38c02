package entities

import (
	"fmt"

	"github.com/decker502/yarnview/pkg/components"
	"github.com/decker502/yarnview/pkg/ecs"
)

// NewUINode 创建一个 UI 节点实体并挂到 parent 下（parent 为 ecs.InvalidEntity 时创建根节点）
func NewUINode(em *ecs.EntityManager, parent ecs.EntityID, name string, layout components.UILayoutComponent) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.UINodeComponent{
		Name:   name,
		Parent: ecs.InvalidEntity,
	})
	ecs.AddComponent(em, id, &layout)
	ecs.AddComponent(em, id, &components.UIVisibilityComponent{Visible: true})

	if parent != ecs.InvalidEntity {
		AppendChild(em, parent, id)
	}
	return id
}

// AppendChild 把 child 挂到 parent 的子节点列表末尾
// child 如果已有父节点会先被卸下
func AppendChild(em *ecs.EntityManager, parent, child ecs.EntityID) {
	parentNode := MustGetComponent[*components.UINodeComponent](em, parent, "parent node")
	childNode := MustGetComponent[*components.UINodeComponent](em, child, "child node")

	if childNode.Parent != ecs.InvalidEntity {
		Detach(em, child)
	}

	parentNode.Children = append(parentNode.Children, child)
	childNode.Parent = parent
}

// Detach 把节点从父节点的子节点列表中移除（节点本身保留）
func Detach(em *ecs.EntityManager, child ecs.EntityID) {
	childNode, ok := ecs.GetComponent[*components.UINodeComponent](em, child)
	if !ok || childNode.Parent == ecs.InvalidEntity {
		return
	}

	if parentNode, ok := ecs.GetComponent[*components.UINodeComponent](em, childNode.Parent); ok {
		for i, id := range parentNode.Children {
			if id == child {
				parentNode.Children = append(parentNode.Children[:i], parentNode.Children[i+1:]...)
				break
			}
		}
	}
	childNode.Parent = ecs.InvalidEntity
}

// DespawnRecursive 卸下节点并销毁整棵子树
// 实体在本帧末尾的 RemoveMarkedEntities 中真正移除
func DespawnRecursive(em *ecs.EntityManager, id ecs.EntityID) {
	Detach(em, id)
	despawnSubtree(em, id)
}

func despawnSubtree(em *ecs.EntityManager, id ecs.EntityID) {
	if node, ok := ecs.GetComponent[*components.UINodeComponent](em, id); ok {
		for _, child := range node.Children {
			despawnSubtree(em, child)
		}
		node.Children = nil
	}
	em.DestroyEntity(id)
}

// VisitTree 按深度优先前序遍历子树
// visit 返回 false 时跳过该节点的子节点
func VisitTree(em *ecs.EntityManager, root ecs.EntityID, visit func(id ecs.EntityID, depth int) bool) {
	visitTree(em, root, 0, visit)
}

func visitTree(em *ecs.EntityManager, id ecs.EntityID, depth int, visit func(ecs.EntityID, int) bool) {
	if !em.EntityExists(id) || em.IsMarkedForDestroy(id) {
		return
	}
	if !visit(id, depth) {
		return
	}
	node, ok := ecs.GetComponent[*components.UINodeComponent](em, id)
	if !ok {
		return
	}
	for _, child := range node.Children {
		visitTree(em, child, depth+1, visit)
	}
}

// LastChild 返回最后一个子节点
func LastChild(em *ecs.EntityManager, parent ecs.EntityID) (ecs.EntityID, bool) {
	node, ok := ecs.GetComponent[*components.UINodeComponent](em, parent)
	if !ok || len(node.Children) == 0 {
		return ecs.InvalidEntity, false
	}
	return node.Children[len(node.Children)-1], true
}

// MustGetComponent 获取界面结构必需的组件，缺失说明场景搭建有误，直接 panic
func MustGetComponent[T any](em *ecs.EntityManager, id ecs.EntityID, what string) T {
	comp, ok := ecs.GetComponent[T](em, id)
	if !ok {
		panic(fmt.Sprintf("[DialogueView] %s (entity %d) is missing component %T", what, id, comp))
	}
	return comp
}
