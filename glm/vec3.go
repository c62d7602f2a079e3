package glm

type Vec3[T numeric] [3]T
